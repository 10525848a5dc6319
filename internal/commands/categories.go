package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/activity"
	"github.com/tallyhq/tally/internal/categorize"
	"github.com/tallyhq/tally/internal/model"
)

func newCategoriesCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage spending categories",
	}
	cmd.AddCommand(
		newCategoriesListCommand(opts),
		newCategoriesAddCommand(opts),
		newCategoriesRemoveCommand(opts),
		newCategoriesRulesCommand(),
	)
	return cmd
}

func newCategoriesListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List default and custom categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				bold.Fprintf(s.out, "%-28s  %-24s  %-8s  %s\n", "KEY", "LABEL", "COLOR", "")
				for _, e := range s.store.Categories() {
					kind := ""
					if e.Custom {
						kind = "custom"
					}
					fmt.Fprintf(s.out, "%-28s  %-24s  %-8s  %s\n", e.Key, e.Config.Label, e.Config.Color, kind)
				}
				return nil
			})
		},
	}
}

func newCategoriesAddCommand(opts *rootOptions) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				key, err := s.store.AddCustomCategory(args[0], label)
				if err != nil {
					return err
				}
				if err := s.save(); err != nil {
					return err
				}
				cfg := s.store.CategoryConfig(key)
				s.record(activity.CategoryAdded, string(key), cfg.Label)
				fmt.Fprintf(s.out, "Added %s (%s, %s)\n", key, cfg.Label, cfg.Color)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "display label (default: the name)")

	return cmd
}

func newCategoriesRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key-or-name>",
		Short: "Delete a custom category; its transactions move to Other",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				key, err := resolveCategory(s.store, args[0])
				if err != nil {
					return err
				}
				if !key.IsCustom() {
					return fmt.Errorf("%s is a default category and cannot be removed", key)
				}
				n, err := s.store.RemoveCustomCategory(key)
				if err != nil {
					return err
				}
				if err := s.save(); err != nil {
					return err
				}
				s.record(activity.CategoryRemoved, string(key), fmt.Sprintf("%d transactions moved to %s", n, model.CategoryOther))
				fmt.Fprintf(s.out, "Removed %s; %d transaction(s) moved to %s\n", key, n, model.CategoryOther)
				return nil
			})
		},
	}
}

func newCategoriesRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the keyword rules used to categorize imports, in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, r := range categorize.Default().Rules() {
				cond := ""
				if r.PositiveOnly {
					cond = " (credits only)"
				}
				fmt.Fprintf(out, "%2d. %s%s: %s\n", i+1, r.Category, cond, strings.Join(r.Keywords, ", "))
			}
			fmt.Fprintf(out, "    otherwise: %s\n", model.CategoryOther)
			return nil
		},
	}
}
