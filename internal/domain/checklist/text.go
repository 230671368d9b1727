package checklist

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

// Header carries the trip details printed above a text checklist.
type Header struct {
	Destination string
	StartDate   string
	EndDate     string
}

// RenderText writes the plain-text export of a checklist:
//
//	TRAVEL CHECKLIST
//	================
//
//	Destination: Tokyo, Japan
//	Travel Dates: 2024-03-15 - 2024-03-22
//
//
//	Documents
//	---------
//	☐ Passport
func RenderText(w io.Writer, h Header, c *Checklist) error {
	bw := bufio.NewWriter(w)

	_, _ = bw.WriteString("TRAVEL CHECKLIST\n")
	_, _ = bw.WriteString("================\n\n")
	_, _ = bw.WriteString("Destination: " + h.Destination + "\n")
	_, _ = bw.WriteString("Travel Dates: " + h.StartDate + " - " + h.EndDate + "\n\n")

	if c != nil {
		for _, cat := range c.categories {
			_, _ = bw.WriteString("\n" + cat.Name + "\n")
			_, _ = bw.WriteString(strings.Repeat("-", utf8.RuneCountInString(cat.Name)) + "\n")
			for _, item := range cat.Items {
				_, _ = bw.WriteString("☐ " + item + "\n")
			}
		}
	}

	return bw.Flush()
}
