// Command console is a terminal front end for the customer accounts
// API: a filterable list view with create, edit and delete, driven by
// the same collection store a graphical client would use.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mwasonga/customer-console/internal/config"
	"github.com/mwasonga/customer-console/internal/mapper"
	"github.com/mwasonga/customer-console/internal/store"
	"github.com/mwasonga/customer-console/internal/transport"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	client := transport.NewClient(cfg.Client.BaseURL, logger)
	recordMapper := mapper.New(nil)
	accounts := store.New(client, recordMapper, logger)

	ctx := context.Background()

	fmt.Printf("customer console — %s\n", cfg.Client.BaseURL)
	if err := accounts.FetchAll(ctx); err != nil {
		notifyError(accounts)
	} else {
		render(accounts)
	}

	fmt.Println(`commands: list | search [term] | add name;email;phone;address | edit id;name;email;phone;address | rm id | quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		cmd, rest, _ := strings.Cut(line, " ")

		switch cmd {
		case "":
			continue

		case "quit", "exit":
			return

		case "list":
			if err := accounts.FetchAll(ctx); err != nil {
				notifyError(accounts)
				continue
			}
			render(accounts)

		case "search":
			accounts.SetSearchTerm(rest)
			render(accounts)

		case "add":
			form, err := parseForm(rest)
			if err != nil {
				fmt.Println(err)
				continue
			}
			created, err := accounts.Create(ctx, recordMapper.ToAPIFormat(form))
			if err != nil {
				notifyError(accounts)
				continue
			}
			fmt.Printf("created account %d\n", created.ID)
			render(accounts)

		case "edit":
			idText, formText, _ := strings.Cut(rest, ";")
			id, err := strconv.ParseInt(strings.TrimSpace(idText), 10, 64)
			if err != nil {
				fmt.Println("usage: edit id;name;email;phone;address")
				continue
			}
			form, err := parseForm(formText)
			if err != nil {
				fmt.Println(err)
				continue
			}
			payload := recordMapper.ToAPIFormat(form)
			// The edit form sends the dialable form assembled from its
			// country-code and number fields.
			phone := mapper.ParsePhoneNumber(form.Phone)
			payload.PhoneNumber = mapper.AssemblePhoneNumber(phone.CountryCode, phone.PhoneNumber)
			if _, err := accounts.Update(ctx, id, payload); err != nil {
				notifyError(accounts)
				continue
			}
			fmt.Printf("updated account %d\n", id)
			render(accounts)

		case "rm":
			id, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
			if err != nil {
				fmt.Println("usage: rm id")
				continue
			}
			if err := accounts.Delete(ctx, id); err != nil {
				notifyError(accounts)
				continue
			}
			fmt.Printf("deleted account %d\n", id)
			render(accounts)

		default:
			fmt.Printf("unknown command %q\n", cmd)
		}
	}
}

// parseForm turns "name;email;phone;address" into a display record the
// mapper can convert to the wire shape.
func parseForm(text string) (mapper.DisplayRecord, error) {
	fields := strings.Split(text, ";")
	if len(fields) < 2 {
		return mapper.DisplayRecord{}, fmt.Errorf("expected name;email;phone;address")
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	form := mapper.DisplayRecord{
		FullName: fields[0],
		Email:    fields[1],
	}
	if len(fields) > 2 {
		form.Phone = fields[2]
	}
	if len(fields) > 3 {
		form.Address = strings.Join(fields[3:], ";")
	}
	return form, nil
}

func render(accounts *store.Store) {
	visible := accounts.Visible()
	if len(visible) == 0 {
		fmt.Println("no accounts")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tADDRESS\tJOINED")
	for _, rec := range visible {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.FullName, rec.Email, rec.Phone, rec.AddressDisplay, rec.DateCreated)
	}
	w.Flush()
}

// notifyError surfaces the captured operation error once, the way the
// UI would flash a toast.
func notifyError(accounts *store.Store) {
	snap := accounts.Snapshot()
	if snap.Err == nil {
		return
	}
	if snap.Err.Status == 0 {
		fmt.Printf("network error: %s\n", snap.Err.Message)
		return
	}
	fmt.Printf("error (%d): %s\n", snap.Err.Status, snap.Err.Message)
}
