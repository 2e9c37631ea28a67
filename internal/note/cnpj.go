package note

import (
	"fmt"
	"strings"
)

// FormatCNPJ applies the standard punctuation mask over a 14-digit CNPJ.
// Inputs that do not hold exactly 14 digits are returned unchanged; a
// malformed id must never cause a record to be rejected.
func FormatCNPJ(cnpj string) string {
	clean := CNPJDigits(cnpj)
	if len(clean) != 14 {
		return cnpj
	}

	return fmt.Sprintf("%s.%s.%s/%s-%s",
		clean[0:2], clean[2:5], clean[5:8], clean[8:12], clean[12:14])
}

// CNPJDigits strips everything but digits from a CNPJ in any form.
func CNPJDigits(cnpj string) string {
	var b strings.Builder

	for _, r := range cnpj {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
