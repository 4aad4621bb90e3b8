package render

import (
	"fmt"
	"time"
)

var monthsPTBR = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FormatIssueDate renders t as a Brazilian Portuguese long date, e.g. "05 de junho de 2025".
func FormatIssueDate(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", t.Day(), monthsPTBR[t.Month()-1], t.Year())
}
