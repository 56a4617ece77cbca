// Package classifier decides whether a message describes a money movement.
package classifier

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"
)

// Reason names why a message was screened out.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonOTP         Reason = "otp"
	ReasonPromotional Reason = "promotional"
	ReasonReminder    Reason = "reminder"
	ReasonDeclined    Reason = "declined"
	ReasonStatement   Reason = "statement"
)

// Soft reports whether a phrase with this reason is overruled by a
// transactional cue in the same message.
func (r Reason) Soft() bool {
	return r == ReasonPromotional || r == ReasonReminder
}

// Phrase is a case-insensitive substring that marks a non-transaction.
type Phrase struct {
	Text   string
	Reason Reason
}

// Pattern is a structural cue that marks a non-transaction. When the
// expression has a group named "match", only that group is reported.
type Pattern struct {
	Expr   string
	Reason Reason
}

// Verdict is the result of screening one message.
type Verdict struct {
	Rejected bool   `json:"rejected"`
	Reason   Reason `json:"reason,omitempty"`
	Match    string `json:"match,omitempty"`
}

// Screen checks messages against the negative fingerprint list before any
// extraction runs. It is immutable and safe for concurrent use.
type Screen struct {
	matcher  *ahocorasick.Matcher
	phrases  []Phrase
	patterns []compiledPattern
	cues     []*regexp.Regexp
}

type compiledPattern struct {
	re     *regexp.Regexp
	reason Reason
}

// NewScreen compiles a screen. Patterns must be valid RE2 syntax; an invalid
// one is a programming error and panics.
func NewScreen(phrases []Phrase, patterns []Pattern) *Screen {
	s := &Screen{phrases: phrases}

	if len(phrases) > 0 {
		dict := make([]string, len(phrases))
		for i, p := range phrases {
			dict[i] = strings.ToUpper(p.Text)
		}
		s.matcher = ahocorasick.NewStringMatcher(dict)
	}

	for _, p := range patterns {
		s.patterns = append(s.patterns, compiledPattern{re: regexp.MustCompile(p.Expr), reason: p.Reason})
	}
	return s
}

// WithCues adds transactional cues. A message matching any cue is not
// rejected by a soft phrase. Invalid expressions panic.
func (s *Screen) WithCues(exprs ...string) *Screen {
	for _, expr := range exprs {
		s.cues = append(s.cues, regexp.MustCompile(expr))
	}
	return s
}

// DefaultScreen returns the built-in negative fingerprints.
func DefaultScreen() *Screen {
	return NewScreen(defaultPhrases, defaultPatterns).WithCues(defaultCues...)
}

// Check screens text. Structural patterns are checked before phrases, and
// the earliest listed phrase wins when several match. Soft phrases are
// skipped when the text carries a transactional cue.
func (s *Screen) Check(text string) Verdict {
	for _, p := range s.patterns {
		if m := p.find(text); m != "" {
			return Verdict{Rejected: true, Reason: p.reason, Match: m}
		}
	}

	if s.matcher == nil {
		return Verdict{}
	}
	hits := s.matcher.MatchThreadSafe([]byte(strings.ToUpper(text)))
	if len(hits) == 0 {
		return Verdict{}
	}

	transactional := s.transactional(text)
	best := -1
	for _, h := range hits {
		if h < 0 || h >= len(s.phrases) {
			continue
		}
		if transactional && s.phrases[h].Reason.Soft() {
			continue
		}
		if best < 0 || h < best {
			best = h
		}
	}
	if best < 0 {
		return Verdict{}
	}
	return Verdict{Rejected: true, Reason: s.phrases[best].Reason, Match: s.phrases[best].Text}
}

func (s *Screen) transactional(text string) bool {
	for _, re := range s.cues {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func (p compiledPattern) find(text string) string {
	loc := p.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return ""
	}
	if i := p.re.SubexpIndex("match"); i > 0 && loc[2*i] >= 0 {
		return text[loc[2*i]:loc[2*i+1]]
	}
	return text[loc[0]:loc[1]]
}

// Classify derives the transaction type from the polarity of the amount
// rule that matched. A message is a valid transaction only when an amount
// is present and the polarity is known.
func Classify(amount model.Optional[string], polarity model.TxType) (model.TxType, bool) {
	if !amount.Present() {
		return model.TxUnknown, false
	}
	if !polarity.Valid() {
		return model.TxUnknown, false
	}
	return polarity, true
}

var defaultPatterns = []Pattern{
	// The code stays in the keyword's sentence and is not part of a longer
	// digit run such as a phone number.
	{`(?i)(?P<match>\b(?:otp|one[\s-]?time[\s-]?pass(?:word|code)|verification code|security code|login code|auth(?:entication)? code)\b[^.!?\n\d]{0,40}?(?:\bis\b|:|-)\s*\d{4,8})(?:$|[^\d\-])`, ReasonOTP},
	{`(?i)\b\d{4,8}\s+is\s+(?:your|the)\s+(?:otp|one[\s-]?time|verification|security|login|auth)`, ReasonOTP},
	{`(?i)\b(?:use|enter)\s+(?:otp|code|verification code)\s*:?\s*\d{4,8}\b`, ReasonOTP},
}

var defaultCues = []string{
	`(?i)\bINR ?\d[\d,]*(?:\.\d+)?(?:\s+(?:cashback|refund|reward))?\s+(?:has been |have been |is |was )?(?:debited|credited|spent|deducted|withdrawn|refunded|received|sent|paid)\b`,
	`(?i)\b(?:debited|credited|spent|deducted|withdrawn)\s+(?:with|for|by|of)?\s*INR ?\d`,
}

var defaultPhrases = []Phrase{
	{"one time password", ReasonOTP},
	{"one-time password", ReasonOTP},
	{"verification code", ReasonOTP},
	{"secret code", ReasonOTP},
	{"pre-approved", ReasonPromotional},
	{"pre approved", ReasonPromotional},
	{"apply now", ReasonPromotional},
	{"limited period offer", ReasonPromotional},
	{"t&c apply", ReasonPromotional},
	{"click here to", ReasonPromotional},
	{"get upto", ReasonPromotional},
	{"use code", ReasonPromotional},
	{"congratulations", ReasonPromotional},
	{"minimum amount due", ReasonReminder},
	{"min amt due", ReasonReminder},
	{"total amount due", ReasonReminder},
	{"total amt due", ReasonReminder},
	{"is due on", ReasonReminder},
	{"payment reminder", ReasonReminder},
	{"overdue", ReasonReminder},
	{"has been declined", ReasonDeclined},
	{"was declined", ReasonDeclined},
	{"transaction declined", ReasonDeclined},
	{"txn declined", ReasonDeclined},
	{"has failed", ReasonDeclined},
	{"transaction failed", ReasonDeclined},
	{"txn failed", ReasonDeclined},
	{"could not be processed", ReasonDeclined},
	{"insufficient balance", ReasonDeclined},
	{"insufficient funds", ReasonDeclined},
	{"statement is ready", ReasonStatement},
	{"e-statement", ReasonStatement},
}
