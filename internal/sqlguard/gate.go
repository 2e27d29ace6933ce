package sqlguard

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"reelquery/internal/services"
)

const (
	// DefaultMaxLength bounds the query text in characters.
	DefaultMaxLength = 8000
	// MaxRows is the number of result rows a caller may keep.
	MaxRows = 50
)

// Rejection reasons.
const (
	ReasonEmpty        = "empty"
	ReasonTooLong      = "too_long"
	ReasonNotSelect    = "not_select"
	ReasonWriteVerb    = "write_verb"
	ReasonComment      = "comment_or_stacking"
	ReasonInternal     = "internal_function"
	ReasonQuoting      = "unsupported_quoting"
	ReasonTable        = "table_not_allowed"
	ReasonMalformedRef = "malformed_table_reference"
)

var (
	selectPrefixPattern = regexp.MustCompile(`(?i)^select\b`)
	writeVerbPattern    = regexp.MustCompile(`(?i)\b(?:insert|update|delete|drop|alter|truncate|create|grant|revoke|merge|call|replace|attach|detach|pragma|vacuum|reindex)\b`)
	internalPattern     = regexp.MustCompile(`(?i)\b(?:sqlite_|pg_|information_schema|load_extension)`)
	tokenPattern        = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_$]*(?:\.[A-Za-z_*][A-Za-z0-9_$]*)*|\d+(?:\.\d+)?|\S`)
)

// clauseKeywords end a FROM list or cannot be a table alias.
var clauseKeywords = map[string]struct{}{
	"where": {}, "group": {}, "order": {}, "limit": {}, "having": {}, "on": {},
	"using": {}, "join": {}, "left": {}, "right": {}, "inner": {}, "outer": {},
	"cross": {}, "full": {}, "natural": {}, "union": {}, "except": {},
	"intersect": {}, "window": {}, "offset": {}, "select": {}, "from": {},
}

// Query is a statement that passed the gate. Its zero value is not runnable.
type Query struct {
	text string
}

// String returns the validated SQL text.
func (q Query) String() string { return q.text }

// IsZero reports whether q was never validated.
func (q Query) IsZero() bool { return q.text == "" }

// Row is one result row keyed by column name.
type Row map[string]any

// Runner executes validated queries.
type Runner interface {
	Run(ctx context.Context, q Query, params ...any) ([]Row, error)
}

// RejectionError explains why a query failed the gate. It never carries the
// query text.
type RejectionError struct {
	Reason string
	Detail string
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return "unsafe query: " + e.Reason
	}
	return fmt.Sprintf("unsafe query: %s (%s)", e.Reason, e.Detail)
}

func (e *RejectionError) Unwrap() error { return services.ErrUnsafeQuery }

// Gate validates generated queries.
type Gate struct {
	policy    Policy
	maxLength int
	// OnReject, when set, is called with the reason for each rejection.
	OnReject func(reason string)
}

// NewGate builds a gate. maxLength <= 0 selects DefaultMaxLength.
func NewGate(policy Policy, maxLength int) *Gate {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Gate{policy: policy, maxLength: maxLength}
}

// Policy returns the whitelist the gate enforces.
func (g *Gate) Policy() Policy { return g.policy }

// IsSafe reports whether query passes the gate.
func (g *Gate) IsSafe(query string) bool {
	_, err := g.Validate(query)
	return err == nil
}

// Validate checks query and returns it wrapped as a runnable Query.
func (g *Gate) Validate(query string) (Query, error) {
	if err := g.check(query); err != nil {
		var rejection *RejectionError
		if g.OnReject != nil && errors.As(err, &rejection) {
			g.OnReject(rejection.Reason)
		}
		return Query{}, err
	}
	return Query{text: strings.TrimSpace(query)}, nil
}

var defaultGate = NewGate(DefaultPolicy(), DefaultMaxLength)

// MustValidate validates a fixed internal query against the default policy
// and panics if it is rejected.
func MustValidate(query string) Query {
	q, err := defaultGate.Validate(query)
	if err != nil {
		panic(fmt.Sprintf("sqlguard: invalid built-in query: %v", err))
	}
	return q
}

// Truncate keeps at most max rows.
func Truncate(rows []Row, max int) []Row {
	if max <= 0 {
		max = MaxRows
	}
	if len(rows) > max {
		return rows[:max]
	}
	return rows
}

func reject(reason, detail string) error {
	return &RejectionError{Reason: reason, Detail: detail}
}

func (g *Gate) check(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return reject(ReasonEmpty, "")
	}
	if utf8.RuneCountInString(query) > g.maxLength {
		return reject(ReasonTooLong, fmt.Sprintf("limit %d", g.maxLength))
	}
	if !selectPrefixPattern.MatchString(trimmed) {
		return reject(ReasonNotSelect, "")
	}

	code, err := stripLiterals(trimmed)
	if err != nil {
		return err
	}
	code = strings.TrimRightFunc(code, unicode.IsSpace)
	code = strings.TrimSuffix(code, ";")

	for _, token := range []string{"--", "/*", "*/", "#", ";"} {
		if strings.Contains(code, token) {
			return reject(ReasonComment, token)
		}
	}
	if match := writeVerbPattern.FindString(code); match != "" {
		return reject(ReasonWriteVerb, strings.ToUpper(match))
	}
	if match := internalPattern.FindString(code); match != "" {
		return reject(ReasonInternal, strings.ToLower(match))
	}
	return g.checkTables(code)
}

// stripLiterals blanks single-quoted string literals so their contents are
// not mistaken for SQL. Quoted identifiers are rejected.
func stripLiterals(query string) (string, error) {
	var b strings.Builder
	b.Grow(len(query))
	inString := false
	runes := []rune(query)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if inString {
			if r == '\'' {
				if i+1 < len(runes) && runes[i+1] == '\'' {
					i++
					continue
				}
				inString = false
				b.WriteRune('\'')
			}
			continue
		}
		switch r {
		case '\'':
			inString = true
			b.WriteRune('\'')
		case '"', '`', '[', ']':
			return "", reject(ReasonQuoting, string(r))
		default:
			b.WriteRune(r)
		}
	}
	if inString {
		return "", reject(ReasonQuoting, "unterminated string")
	}
	return b.String(), nil
}

func (g *Gate) checkTables(code string) error {
	return g.checkTokens(tokenPattern.FindAllString(code, -1))
}

func (g *Gate) checkTokens(tokens []string) error {
	for i := 0; i < len(tokens); i++ {
		keyword := strings.ToLower(tokens[i])
		if keyword != "from" && keyword != "join" {
			continue
		}
		next, err := g.checkTableList(tokens, i+1, keyword == "from")
		if err != nil {
			return err
		}
		i = next - 1
	}
	return nil
}

// checkTableList validates the table references starting at tokens[pos] and
// returns the index of the first token after them.
func (g *Gate) checkTableList(tokens []string, pos int, allowList bool) (int, error) {
	for {
		if pos >= len(tokens) {
			return pos, reject(ReasonMalformedRef, "missing table")
		}
		target := tokens[pos]
		if target == "(" {
			end := matchingParen(tokens, pos)
			if end < 0 {
				return pos, reject(ReasonMalformedRef, "unbalanced parenthesis")
			}
			if err := g.checkTokens(tokens[pos+1 : end]); err != nil {
				return pos, err
			}
			pos = end + 1
		} else {
			if !isIdentifier(target) {
				return pos, reject(ReasonMalformedRef, target)
			}
			if !g.policy.Allows(target) {
				return pos, reject(ReasonTable, strings.ToLower(target))
			}
			pos++
		}

		if pos < len(tokens) && strings.EqualFold(tokens[pos], "as") {
			pos++
			if pos >= len(tokens) || !isIdentifier(tokens[pos]) {
				return pos, reject(ReasonMalformedRef, "alias")
			}
			pos++
		} else if pos < len(tokens) && isIdentifier(tokens[pos]) && !isClauseKeyword(tokens[pos]) {
			pos++
		}

		if allowList && pos < len(tokens) && tokens[pos] == "," {
			pos++
			continue
		}
		return pos, nil
	}
}

// matchingParen returns the index of the ")" closing tokens[open], or -1.
func matchingParen(tokens []string, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i] {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isIdentifier(token string) bool {
	if token == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(token)
	return r == '_' || unicode.IsLetter(r)
}

func isClauseKeyword(token string) bool {
	_, ok := clauseKeywords[strings.ToLower(token)]
	return ok
}
