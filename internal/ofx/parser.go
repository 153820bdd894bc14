// Package ofx parses OFX/QFX bank exports into transaction submissions.
package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"

	"github.com/capling-app/capling/internal/model"
)

// Entry is one statement line converted to the engine's signed-amount
// convention: positive for spends, negative for deposits.
type Entry struct {
	Timestamp time.Time
	Merchant  string
	Memo      string
	Category  model.Category
	Amount    float64
}

// Parser parses OFX/QFX statement files.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocess fixes common formatting issues in real-world OFX exports:
// leading whitespace before the header, mixed-case SEVERITY values, and
// SGML-style tags missing their closing bracket.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = tagFixRegex.ReplaceAllString(content, "$1>")
	return content
}

// Parse reads an OFX/QFX file and returns its statement lines as entries.
// Bank and credit card statements are both handled.
func (p *Parser) Parse(reader io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var entries []Entry

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		for _, ofxTxn := range stmt.BankTranList.Transactions {
			entries = append(entries, p.convert(ofxTxn))
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		for _, ofxTxn := range stmt.BankTranList.Transactions {
			entries = append(entries, p.convert(ofxTxn))
		}
	}

	slog.Info("parsed OFX file", "entries", len(entries))

	return entries, nil
}

// convert maps one OFX transaction onto an entry. OFX uses negative
// amounts for debits, the inverse of the engine's convention, so the sign
// flips here.
func (p *Parser) convert(ofxTxn ofxgo.Transaction) Entry {
	amount, _ := ofxTxn.TrnAmt.Float64()

	return Entry{
		Merchant:  merchantName(ofxTxn),
		Memo:      strings.TrimSpace(string(ofxTxn.Memo)),
		Amount:    -amount,
		Category:  inferCategory(ofxTxn),
		Timestamp: ofxTxn.DtPosted.Time,
	}
}

// descriptionPrefixes are boilerplate lead-ins banks prepend to statement
// lines.
var descriptionPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

// merchantName extracts a clean merchant name, preferring the PAYEE block
// over the raw NAME field.
func merchantName(ofxTxn ofxgo.Transaction) string {
	if ofxTxn.Payee != nil && ofxTxn.Payee.Name != "" {
		return string(ofxTxn.Payee.Name)
	}

	name := strings.TrimSpace(string(ofxTxn.Name))
	if ofxTxn.Memo != "" && isGenericName(name) {
		name = strings.TrimSpace(string(ofxTxn.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range descriptionPrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}

	// Strip leading "MM/DD " date fragments.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericName(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

// inferCategory maps OFX transaction types onto ledger categories. OFX
// carries no merchant categories, so unknown types default to shopping and
// deposits to income.
func inferCategory(ofxTxn ofxgo.Transaction) model.Category {
	amount, _ := ofxTxn.TrnAmt.Float64()
	if amount > 0 {
		return model.CategoryIncome
	}

	switch ofxTxn.TrnType.String() {
	case "FEE", "SRVCHG", "DIRECTDEBIT", "REPEATPMT":
		return model.CategoryBills
	case "ATM", "CASH":
		return model.CategoryShopping
	default:
		return model.CategoryShopping
	}
}
