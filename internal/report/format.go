package report

import (
    "golang.org/x/text/language"
    "golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Count formats n with thousands separators.
func Count(n int) string { return printer.Sprintf("%d", n) }

// Percent formats a share in [0, 1] with one decimal, e.g. "12.5%".
func Percent(share float64) string { return printer.Sprintf("%.1f%%", share*100) }
