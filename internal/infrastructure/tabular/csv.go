// Package tabular reads and writes the delimited-text form of transaction and
// loan tables. Input columns may appear in any order and unknown columns are
// ignored; output always uses the canonical column order with the derived
// risk column appended.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/valueobject"
)

// table is a parsed CSV document with a header index.
type table struct {
	columns map[string]int
	header  []string
	rows    [][]string
}

func readTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, model.ErrEmptyBatch
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		h = model.CanonicalColumn(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		header[i] = h
		columns[h] = i
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSchemaMismatch, err)
	}
	if len(rows) == 0 {
		return nil, model.ErrEmptyBatch
	}
	return &table{columns: columns, header: header, rows: rows}, nil
}

// require returns the positions of the schema features in the header.
func (t *table) require(schema model.FeatureSchema) ([]int, error) {
	return schema.Locate(t.header)
}

func (t *table) float(row, col int, name string) (float64, error) {
	cell := strings.TrimSpace(t.rows[row][col])
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: row %d column %s: %q is not numeric", model.ErrSchemaMismatch, row+1, name, cell)
	}
	return v, nil
}

// integer parses a count or identifier cell; fractional values are rejected
// rather than rounded.
func (t *table) integer(row, col int, name string) (int, error) {
	v, err := t.float(row, col, name)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: row %d column %s: %v is not an integer", model.ErrSchemaMismatch, row+1, name, v)
	}
	return int(v), nil
}

// flag parses a 0/1 indicator cell.
func (t *table) flag(row, col int, name string) (bool, error) {
	v, err := t.float(row, col, name)
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: row %d column %s: %v is not 0 or 1", model.ErrSchemaMismatch, row+1, name, v)
	}
}

func (t *table) floats(row int, idx []int, names []string) ([]float64, error) {
	out := make([]float64, len(idx))
	for i, col := range idx {
		v, err := t.float(row, col, names[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (t *table) transaction(row int, idx []int) (model.Transaction, error) {
	names := model.TransactionSchema.Features
	v, err := t.floats(row, idx, names)
	if err != nil {
		return model.Transaction{}, err
	}
	merchant, err := t.integer(row, idx[1], names[1])
	if err != nil {
		return model.Transaction{}, err
	}
	foreign, err := t.flag(row, idx[4], names[4])
	if err != nil {
		return model.Transaction{}, err
	}
	hour, err := t.integer(row, idx[5], names[5])
	if err != nil {
		return model.Transaction{}, err
	}
	return model.Transaction{
		Amount:             v[0],
		MerchantID:         merchant,
		DeviceScore:        v[2],
		DistanceFromLastKm: v[3],
		Foreign:            foreign,
		Hour:               hour,
	}, nil
}

// ReadTransactions decodes a transaction table.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}
	idx, err := t.require(model.TransactionSchema)
	if err != nil {
		return nil, err
	}

	txns := make([]model.Transaction, len(t.rows))
	for row := range t.rows {
		txns[row], err = t.transaction(row, idx)
		if err != nil {
			return nil, err
		}
	}
	return txns, nil
}

// ReadScoredTransactions decodes a transaction table that already carries a
// fraud_risk column.
func ReadScoredTransactions(r io.Reader) ([]model.ScoredTransaction, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}
	idx, err := t.require(model.TransactionSchema)
	if err != nil {
		return nil, err
	}
	riskCol, ok := t.columns[model.ColFraudRisk]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %s", model.ErrSchemaMismatch, model.ColFraudRisk)
	}

	out := make([]model.ScoredTransaction, len(t.rows))
	for row := range t.rows {
		txn, err := t.transaction(row, idx)
		if err != nil {
			return nil, err
		}
		risk, err := valueobject.RiskScoreFromString(strings.TrimSpace(t.rows[row][riskCol]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", model.ErrSchemaMismatch, row+1, err)
		}
		out[row] = model.ScoredTransaction{Transaction: txn, FraudRisk: risk}
	}
	return out, nil
}

// ReadLoans decodes a loan table. The book is labeled when a default column
// is present, in which case every label must be 0 or 1.
func ReadLoans(r io.Reader) (model.LoanBook, error) {
	t, err := readTable(r)
	if err != nil {
		return model.LoanBook{}, err
	}
	idx, err := t.require(model.LoanSchema)
	if err != nil {
		return model.LoanBook{}, err
	}
	labelCol, labeled := t.columns[model.ColDefault]

	book := model.LoanBook{Applicants: make([]model.LoanApplicant, len(t.rows)), Labeled: labeled}
	for row := range t.rows {
		v, err := t.floats(row, idx, model.LoanSchema.Features)
		if err != nil {
			return model.LoanBook{}, err
		}
		delinquencies, err := t.integer(row, idx[3], model.LoanSchema.Features[3])
		if err != nil {
			return model.LoanBook{}, err
		}
		a := model.LoanApplicant{
			Income:        v[0],
			DebtToIncome:  v[1],
			CreditScore:   v[2],
			Delinquencies: delinquencies,
			Utilization:   v[4],
			LoanAmount:    v[5],
		}
		if labeled {
			a.Default, err = parseLabel(t.rows[row][labelCol])
			if err != nil {
				return model.LoanBook{}, fmt.Errorf("row %d: %w", row+1, err)
			}
		}
		book.Applicants[row] = a
	}
	return book, nil
}

// ReadScoredLoans decodes a loan table that already carries a default_risk
// column. The default column is optional.
func ReadScoredLoans(r io.Reader) ([]model.ScoredApplicant, error) {
	var buf strings.Builder
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	t, err := readTable(strings.NewReader(buf.String()))
	if err != nil {
		return nil, err
	}
	riskCol, ok := t.columns[model.ColDefaultRisk]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %s", model.ErrSchemaMismatch, model.ColDefaultRisk)
	}
	book, err := ReadLoans(strings.NewReader(buf.String()))
	if err != nil {
		return nil, err
	}

	out := make([]model.ScoredApplicant, book.Len())
	for row, a := range book.Applicants {
		risk, err := valueobject.RiskScoreFromString(strings.TrimSpace(t.rows[row][riskCol]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", model.ErrSchemaMismatch, row+1, err)
		}
		out[row] = model.ScoredApplicant{LoanApplicant: a, DefaultRisk: risk}
	}
	return out, nil
}

func parseLabel(cell string) (bool, error) {
	cell = strings.TrimSpace(cell)
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return false, fmt.Errorf("%w: %q", model.ErrInvalidLabel, cell)
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q", model.ErrInvalidLabel, cell)
	}
}

// WriteTransactions encodes transactions without a risk column.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.TransactionSchema.Features); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, txn := range txns {
		if err := cw.Write(transactionRecord(txn)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	return flush(cw)
}

// WriteScoredTransactions encodes scored transactions with fraud_risk appended.
func WriteScoredTransactions(w io.Writer, scored []model.ScoredTransaction) error {
	cw := csv.NewWriter(w)
	header := append(append([]string(nil), model.TransactionSchema.Features...), model.ColFraudRisk)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, s := range scored {
		if err := cw.Write(append(transactionRecord(s.Transaction), s.FraudRisk.String())); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	return flush(cw)
}

// WriteLoans encodes a loan book, including the default column when labeled.
func WriteLoans(w io.Writer, book model.LoanBook) error {
	cw := csv.NewWriter(w)
	header := append([]string(nil), model.LoanSchema.Features...)
	if book.Labeled {
		header = append(header, model.ColDefault)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, a := range book.Applicants {
		rec := loanRecord(a)
		if book.Labeled {
			rec = append(rec, formatFlag(a.Default))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	return flush(cw)
}

// WriteScoredLoans encodes scored applicants with default_risk appended. The
// default column is kept when labeled is true.
func WriteScoredLoans(w io.Writer, scored []model.ScoredApplicant, labeled bool) error {
	cw := csv.NewWriter(w)
	header := append([]string(nil), model.LoanSchema.Features...)
	if labeled {
		header = append(header, model.ColDefault)
	}
	header = append(header, model.ColDefaultRisk)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, s := range scored {
		rec := loanRecord(s.LoanApplicant)
		if labeled {
			rec = append(rec, formatFlag(s.Default))
		}
		rec = append(rec, s.DefaultRisk.String())
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	return flush(cw)
}

func transactionRecord(t model.Transaction) []string {
	return []string{
		formatFloat(t.Amount),
		strconv.Itoa(t.MerchantID),
		formatFloat(t.DeviceScore),
		formatFloat(t.DistanceFromLastKm),
		formatFlag(t.Foreign),
		strconv.Itoa(t.Hour),
	}
}

func loanRecord(a model.LoanApplicant) []string {
	return []string{
		formatFloat(a.Income),
		formatFloat(a.DebtToIncome),
		formatFloat(a.CreditScore),
		strconv.Itoa(a.Delinquencies),
		formatFloat(a.Utilization),
		formatFloat(a.LoanAmount),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func flush(cw *csv.Writer) error {
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
