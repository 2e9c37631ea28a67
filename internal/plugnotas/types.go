package plugnotas

import (
	"encoding/json"
	"strings"
	"time"
)

// DocumentKind identifies a binary attachment type on a note.
type DocumentKind string

const (
	DocumentPDF DocumentKind = "pdf"
	DocumentXML DocumentKind = "xml"
)

// RawNote is the decode boundary for the source payload. The API is not
// contract-stable: several fields appear as a string in one response and as
// a number or nested object in the next, so those are kept as raw JSON and
// interpreted through the accessor methods.
type RawNote struct {
	ID         string           `json:"id"`
	IDDPS      string           `json:"idDPS"`
	Situation  string           `json:"situacao"`
	Series     string           `json:"serie"`
	Number     json.RawMessage  `json:"numero"`
	NFSeNumber json.RawMessage  `json:"numeroNfse"`
	Issued     string           `json:"emissao"`
	Authorized string           `json:"autorizacao"`
	AccessKey  string           `json:"chaveAcessoNfse"`
	Issuer     json.RawMessage  `json:"prestador"`
	Recipient  json.RawMessage  `json:"tomador"`
	FlatValue  json.RawMessage  `json:"valorServico"`
	Value      json.RawMessage  `json:"valor"`
	Total      json.RawMessage  `json:"total"`
	Services   []RawServiceLine `json:"servico"`
	PDF        json.RawMessage  `json:"pdf"`
	XML        json.RawMessage  `json:"xml"`
}

// RawServiceLine is one entry of the note's service list.
type RawServiceLine struct {
	Value json.RawMessage `json:"valor"`
}

// Page is one page of a period query.
type Page struct {
	Notes         []RawNote `json:"notas"`
	NextPageToken string    `json:"hashProximaPagina"`
}

// Scalar decodes a raw field that may arrive as either a JSON string or a
// JSON number, returning its textual form.
func Scalar(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return ""
}

// DocumentNumber resolves the note's document number: numeroNfse first,
// then numero, then the source id as a last resort.
func (n *RawNote) DocumentNumber() string {
	if v := Scalar(n.NFSeNumber); v != "" {
		return v
	}

	if v := Scalar(n.Number); v != "" {
		return v
	}

	return n.ID
}

// IssuerTaxID returns the issuer CNPJ, whether prestador arrived as an
// object with cpfCnpj or as a bare string.
func (n *RawNote) IssuerTaxID() string {
	return taxIDField(n.Issuer)
}

// RecipientTaxID returns the recipient CNPJ.
func (n *RawNote) RecipientTaxID() string {
	return taxIDField(n.Recipient)
}

func taxIDField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var obj struct {
		CpfCnpj string `json:"cpfCnpj"`
	}

	if err := json.Unmarshal(raw, &obj); err == nil && obj.CpfCnpj != "" {
		return obj.CpfCnpj
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return ""
}

// IssueDate parses the emissao field, accepting both YYYY-MM-DD and
// DD/MM/YYYY forms (with or without a trailing time component).
func (n *RawNote) IssueDate() (time.Time, error) {
	s := n.Issued
	if len(s) > 10 {
		s = s[:10]
	}

	if strings.Index(s, "/") == 2 {
		return time.Parse("02/01/2006", s)
	}

	s = strings.ReplaceAll(s, "/", "-")

	return time.Parse(time.DateOnly, s)
}

// documentURL resolves an attachment URL from the raw pdf/xml field, which
// may be a plain URL string or an object carrying one.
func documentURL(raw json.RawMessage) string {
	if s := Scalar(raw); strings.HasPrefix(s, "http") {
		return s
	}

	var obj struct {
		URL string `json:"url"`
	}

	if err := json.Unmarshal(raw, &obj); err == nil && strings.HasPrefix(obj.URL, "http") {
		return obj.URL
	}

	return ""
}
