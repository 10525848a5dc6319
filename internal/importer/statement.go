package importer

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/tallyhq/tally/internal/categorize"
	"github.com/tallyhq/tally/internal/id"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/summary"
)

// DefaultFileName is used when no file name is supplied.
const DefaultFileName = "uploaded.csv"

// RowSkip describes a row dropped during parsing.
type RowSkip struct {
	Line   int // 1-based line number in the source text
	Reason string
	Raw    string
}

// Option configures statement construction.
type Option func(*options)

type options struct {
	fileName string
	engine   *categorize.Engine
	now      func() time.Time
	onSkip   func(RowSkip)
}

func newOptions(opts []Option) options {
	o := options{
		fileName: DefaultFileName,
		engine:   categorize.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFileName sets the statement's file name.
func WithFileName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.fileName = name
		}
	}
}

// WithCategorizer replaces the default keyword engine.
func WithCategorizer(e *categorize.Engine) Option {
	return func(o *options) { o.engine = e }
}

// WithClock sets the source of the upload timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRowSkipped registers a sink for rows dropped as malformed. Without it
// skipped rows are silent.
func WithRowSkipped(fn func(RowSkip)) Option {
	return func(o *options) { o.onSkip = fn }
}

func (o options) skip(line int, reason, raw string) {
	if o.onSkip != nil {
		o.onSkip(RowSkip{Line: line, Reason: reason, Raw: raw})
	}
}

// Parse reads a Chase CSV export of the given account type. The header line
// is skipped and malformed rows are dropped; it never fails on content.
func Parse(csvText string, accountType model.AccountType, opts ...Option) model.Statement {
	p := &ChaseParser{Account: accountType}
	return p.parseText(csvText, newOptions(opts))
}

// Parse implements Parser.
func (p *ChaseParser) Parse(r io.Reader, opts ...Option) (model.Statement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Statement{}, fmt.Errorf("reading %s CSV: %w", p.Format(), err)
	}
	return p.parseText(string(data), newOptions(opts)), nil
}

func (p *ChaseParser) parseText(text string, o options) model.Statement {
	layout := p.layout()
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var txns []model.Transaction
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		r, reason := layout.parseRow(SplitLine(line))
		if reason != "" {
			o.skip(i+1, reason, line)
			continue
		}
		txns = append(txns, o.newTransaction(r))
	}
	return o.build(txns, p.Account)
}

func (o options) newTransaction(r row) model.Transaction {
	return model.NewTransaction(id.NewTransactionID(), r.date, r.desc, r.amount, o.engine.Categorize(r.desc, r.amount))
}

// build sorts txns newest first and wraps them in a Statement.
func (o options) build(txns []model.Transaction, accountType model.AccountType) model.Statement {
	if txns == nil {
		txns = []model.Transaction{}
	}
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date > txns[j].Date
	})
	return model.Statement{
		ID:           id.NewStatementID(),
		FileName:     o.fileName,
		AccountType:  accountType,
		Period:       summary.Period(txns),
		Transactions: txns,
		Summary:      summary.Summarize(txns),
		UploadedAt:   o.now().UTC(),
	}
}

// DetectAccountType inspects the header line of a CSV export. Unrecognized
// headers default to checking.
func DetectAccountType(csvText string) model.AccountType {
	header, _, _ := strings.Cut(csvText, "\n")
	header = strings.ToLower(header)

	if strings.Contains(header, "details") && strings.Contains(header, "posting date") {
		return model.AccountChecking
	}
	if strings.Contains(header, "transaction date") && strings.Contains(header, "post date") {
		return model.AccountCredit
	}
	return model.AccountChecking
}

// FromExtraction wraps rows produced by document extraction into a Statement,
// treating them exactly like CSV rows. Rows without a date or description are
// dropped.
func FromExtraction(rows []model.ExtractedRow, accountType model.AccountType, opts ...Option) model.Statement {
	o := newOptions(opts)
	if !accountType.Valid() {
		accountType = model.AccountChecking
	}

	var txns []model.Transaction
	for i, er := range rows {
		date := strings.TrimSpace(er.Date)
		desc := strings.TrimSpace(er.Description)
		switch {
		case date == "":
			o.skip(i+1, "missing date", er.Description)
			continue
		case desc == "":
			o.skip(i+1, "missing description", er.Date)
			continue
		}
		txns = append(txns, o.newTransaction(row{date: FormatDate(date), desc: desc, amount: er.Amount}))
	}
	return o.build(txns, accountType)
}
