package storage

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// KeyPrefix is the root of the document tree in both stores.
const KeyPrefix = "notas/"

// keyPattern matches notas/CNPJ/YYYY/MM/NFSe_YYYY-MM-DD_NUMERO.(pdf|xml).
// Older jobs wrote the issue date as DD-MM-YYYY; both orders are accepted
// and disambiguated by the first segment's length.
var keyPattern = regexp.MustCompile(`^notas/(\d{14})/(\d{4})/(\d{2})/NFSe_(\d{2,4})-(\d{2})-(\d{2,4})_(\d+)(?:_(\d{14}))?\.(pdf|xml)$`)

// ParsedKey is the identity recovered from a document key alone. IssuerCNPJ
// is only present in keys written by jobs that appended it.
type ParsedKey struct {
	RecipientCNPJ string
	IssuerCNPJ    string
	Number        string
	IssueDate     time.Time
	Kind          string
}

// BuildKey lays out the canonical document key for a note attachment.
func BuildKey(recipientCNPJ string, issueDate time.Time, number, ext string) string {
	return fmt.Sprintf("%s%s/%d/%02d/NFSe_%s_%s.%s",
		KeyPrefix, recipientCNPJ, issueDate.Year(), int(issueDate.Month()),
		issueDate.Format(time.DateOnly), number, ext)
}

// ParseKey reverses BuildKey. Keys that do not follow the layout are
// reported with ok=false and skipped by callers.
func ParseKey(key string) (ParsedKey, bool) {
	m := keyPattern.FindStringSubmatch(key)
	if m == nil {
		return ParsedKey{}, false
	}

	first, mid, last := m[4], m[5], m[6]

	var year, month, day int

	month, _ = strconv.Atoi(mid)

	switch {
	case len(first) == 4 && len(last) == 2:
		year, _ = strconv.Atoi(first)
		day, _ = strconv.Atoi(last)
	case len(first) == 2 && len(last) == 4:
		day, _ = strconv.Atoi(first)
		year, _ = strconv.Atoi(last)
	default:
		return ParsedKey{}, false
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ParsedKey{}, false
	}

	return ParsedKey{
		RecipientCNPJ: m[1],
		IssuerCNPJ:    m[8],
		Number:        m[7],
		IssueDate:     time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
		Kind:          m[9],
	}, true
}
