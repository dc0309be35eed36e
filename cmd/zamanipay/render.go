package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/zamanipay/zamanipay/internal/screen/dashboard"
	"github.com/zamanipay/zamanipay/internal/screen/profile"
)

func renderDashboard(w io.Writer, m dashboard.Model) {
	fmt.Fprintf(w, "Hello, %s\n\n", m.Name)
	fmt.Fprintf(w, "Balance:  %s\n", m.BalanceText)
	fmt.Fprintf(w, "Account:  %s\n\n", m.AccountNumber)

	fmt.Fprintln(w, "Favorite contacts")
	if m.ContactsPlaceholder != "" {
		fmt.Fprintf(w, "  %s\n", m.ContactsPlaceholder)
	}
	for _, c := range m.Contacts {
		fmt.Fprintf(w, "  %s\n", c.Name)
	}

	fmt.Fprintln(w, "\nRecent transactions")
	if m.TransactionsPlaceholder != "" {
		fmt.Fprintf(w, "  %s\n", m.TransactionsPlaceholder)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range m.Transactions {
		arrow := "->"
		if row.Incoming {
			arrow = "<-"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", arrow, row.Title, row.Time, row.Amount)
	}
	tw.Flush()
}

func renderProfile(w io.Writer, d profile.Details) {
	state := "off"
	if d.HasFingerprint {
		state = "on"
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\t%s\n", d.FullName)
	fmt.Fprintf(tw, "Email\t%s\n", d.Email)
	fmt.Fprintf(tw, "Account\t%s\n", d.AccountNumber)
	fmt.Fprintf(tw, "Fingerprint\t%s\n", state)
	tw.Flush()
}
