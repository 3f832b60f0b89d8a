// Package export renders transactions as the spending-report CSV and reads
// that format back for imports.
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"paytrack/internal/core"
)

// Meta is the optional comment block written above the header.
type Meta struct {
	Title       string
	Range       string
	GeneratedAt time.Time
}

var header = []string{"date", "category", "amount", "note"}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders m as US dollars with thousands grouping, e.g. $1,234.50.
func FormatCurrency(m core.Money) string {
	sign := ""
	if m.IsNegative() {
		sign = "-"
		m = core.NewMoney(m.Neg())
	}
	whole, cents, _ := strings.Cut(m.StringFixed(2), ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = printer.Sprintf("%d", n)
	}
	return sign + "$" + whole + "." + cents
}

// WriteTransactionsCSV writes the report for txs to w.
//
// Layout: optional "# " comment lines and a blank line, the header row, one
// row per transaction, a blank line, then "total,,<raw sum>,<currency sum>".
func WriteTransactionsCSV(w io.Writer, txs []core.Transaction, meta Meta) error {
	bw := bufio.NewWriter(w)

	var comments []string
	if meta.Title != "" {
		comments = append(comments, "# "+meta.Title)
	}
	if meta.Range != "" {
		comments = append(comments, "# Range: "+meta.Range)
	}
	if !meta.GeneratedAt.IsZero() {
		comments = append(comments, "# Generated: "+meta.GeneratedAt.UTC().Format(time.RFC3339))
	}
	for _, c := range comments {
		bw.WriteString(c + "\n")
	}
	if len(comments) > 0 {
		bw.WriteString("\n")
	}

	writeRow(bw, header...)
	total := core.Zero
	for _, tx := range txs {
		writeRow(bw, tx.Date.String(), string(tx.Category), tx.Amount.String(), tx.Note)
		total = total.Add(tx.Amount)
	}
	bw.WriteString("\n")
	writeRow(bw, "total", "", total.String(), FormatCurrency(total))

	return bw.Flush()
}

// BuildTransactionsCSV is WriteTransactionsCSV into a string.
func BuildTransactionsCSV(txs []core.Transaction, meta Meta) string {
	var sb strings.Builder
	_ = WriteTransactionsCSV(&sb, txs, meta)
	return sb.String()
}

func writeRow(w *bufio.Writer, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteString(escape(f))
	}
	w.WriteByte('\n')
}

// escape wraps fields containing a comma, quote or newline; only those.
func escape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ReadTransactionsCSV parses a report produced by WriteTransactionsCSV.
// Comment lines, blank lines, the header and the total row are skipped.
// Returned transactions have no id.
func ReadTransactionsCSV(r io.Reader) ([]core.Transaction, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1

	var out []core.Transaction
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}
		if len(record) == 0 || record[0] == header[0] || record[0] == "total" {
			continue
		}
		if len(record) < 3 {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected at least 3 fields, got %d", line, len(record))
		}

		date, err := core.ParseDate(record[0])
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		amount, err := core.ParseMoney(record[2])
		if err != nil {
			line, _ := reader.FieldPos(2)
			return nil, fmt.Errorf("line %d: could not parse amount '%s': %w", line, record[2], err)
		}
		tx := core.Transaction{
			Date:     date,
			Category: core.Category(strings.TrimSpace(record[1])),
			Amount:   amount,
		}
		if len(record) > 3 {
			tx.Note = record[3]
		}
		out = append(out, tx)
	}
	return out, nil
}
