// Command smsparse parses transaction messages from the command line.
//
//	smsparse "INR 2000 debited from A/c no. XX3423 ..."
//	smsparse -csv messages.csv -out parsed.csv
//
// A single message is printed as JSON. In CSV mode every row's "text"
// column is parsed and the flattened records are written to -out.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"
)

type inputRow struct {
	Text string `csv:"text"`
}

type outputRow struct {
	Text               string `csv:"text"`
	IsValidTransaction bool   `csv:"is_valid_transaction"`
	AccountType        string `csv:"account_type"`
	AccountNumber      string `csv:"account_number"`
	AccountName        string `csv:"account_name"`
	Type               string `csv:"type"`
	Amount             string `csv:"amount"`
	Merchant           string `csv:"merchant"`
	ReferenceNo        string `csv:"reference_no"`
	AvailableBalance   string `csv:"available_balance"`
	OutstandingBalance string `csv:"outstanding_balance"`
	RuleGroups         string `csv:"rule_groups"`
}

type explained struct {
	Record      model.TransactionRecord `json:"record"`
	Explanation sms.Explanation         `json:"explanation"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("smsparse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		csvIn   = fs.String("csv", "", "CSV file with a 'text' column to parse in batch")
		csvOut  = fs.String("out", "out.csv", "where batch results are written")
		explain = fs.Bool("explain", false, "include the rules that produced each field")
		rules   = fs.String("rules", "", "YAML file with extra rule groups")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	engine, err := sms.NewFromFile(*rules)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if *csvIn != "" {
		n, err := parseFile(engine, *csvIn, *csvOut, *explain)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stdout, "parsed %d messages into %s\n", n, *csvOut)
		return 0
	}

	text := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(stderr, "usage: smsparse [-explain] [-rules file] \"message text\" | -csv in.csv [-out out.csv]")
		return 2
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if *explain {
		rec, exp := engine.Explain(text)
		err = enc.Encode(explained{Record: rec, Explanation: exp})
	} else {
		err = enc.Encode(engine.Parse(text))
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func parseFile(engine *sms.Engine, in, out string, explain bool) (int, error) {
	src, err := os.Open(in)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return 0, err
	}

	n, err := parseCSV(engine, src, dst, explain)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func parseCSV(engine *sms.Engine, r io.Reader, w io.Writer, explain bool) (int, error) {
	var rows []*inputRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return 0, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) == 0 {
		return 0, errors.New("no rows with a 'text' column")
	}

	out := make([]*outputRow, 0, len(rows))
	for _, row := range rows {
		var (
			rec    model.TransactionRecord
			groups string
		)
		if explain {
			var exp sms.Explanation
			rec, exp = engine.Explain(row.Text)
			groups = strings.Join(exp.Candidates, ";")
		} else {
			rec = engine.Parse(row.Text)
		}
		out = append(out, flatten(row.Text, rec, groups))
	}

	if err := gocsv.Marshal(&out, w); err != nil {
		return 0, fmt.Errorf("failed to write csv: %w", err)
	}
	return len(out), nil
}

func flatten(text string, rec model.TransactionRecord, groups string) *outputRow {
	row := &outputRow{
		Text:               text,
		IsValidTransaction: rec.IsValidTransaction,
		AccountType:        string(rec.Account.Type),
		AccountNumber:      rec.Account.Number.OrElse(""),
		AccountName:        rec.Account.Name.OrElse(""),
		Type:               string(rec.Transaction.Type),
		Amount:             rec.Transaction.Amount.OrElse(""),
		Merchant:           rec.Transaction.Merchant.OrElse(""),
		ReferenceNo:        rec.Transaction.ReferenceNo.OrElse(""),
		RuleGroups:         groups,
	}
	if rec.Balance != nil {
		row.AvailableBalance = rec.Balance.Available.OrElse("")
		row.OutstandingBalance = rec.Balance.Outstanding.OrElse("")
	}
	return row
}
