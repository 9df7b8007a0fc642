package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/MilanBeharee27/finance-tracker/internal/amqp"
	"github.com/MilanBeharee27/finance-tracker/internal/cli"
	"github.com/MilanBeharee27/finance-tracker/internal/core"
	"github.com/MilanBeharee27/finance-tracker/internal/services"
)

const usage = `Usage: tracker -user <username> <command> [flags]

Commands:
  add        record a transaction
  update     rewrite a transaction
  delete     remove a transaction
  list       show the ledger, optionally filtered
  category   manage categories (add, list)
  budget     manage monthly budgets (set, update, delete, list)
  overview   show totals, balance, per-category spend and budgets
`

type app struct {
	ownerID    int64
	categories *services.CategoryService
	ledger     *services.LedgerService
	budgets    *services.BudgetService
	overviews  *services.OverviewService
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	fs := flag.NewFlagSet("tracker", flag.ContinueOnError)
	fs.SetOutput(stdout)
	username := fs.String("user", "", "Username owning the ledger")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || fs.NArg() == 0 {
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("missing username or command")
	}

	cfg := cli.LoadAndValidateConfig(logger)
	repo := cli.InitStorage(logger, cfg)
	defer repo.Close()

	ctx := context.Background()
	user, err := repo.GetUserByUsername(ctx, *username)
	if err != nil {
		return fmt.Errorf("unknown user %q (create it with adduser): %w", *username, err)
	}

	var publisher services.ExportPublisher
	if cfg.ExportEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// The export pipeline is best-effort; mutations proceed and
			// the worker sweep picks the rows up later.
			logger.Warn("Export broker unavailable, continuing without it", "error", err)
		} else {
			defer client.Close()
			publisher = client
		}
	}

	overviews := services.NewOverviewService(repo)
	a := &app{
		ownerID:    user.ID,
		categories: services.NewCategoryService(repo),
		ledger:     services.NewLedgerService(repo, publisher, overviews),
		budgets:    services.NewBudgetService(repo, overviews),
		overviews:  overviews,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "add":
		return a.cmdAdd(ctx, rest, stdout)
	case "update":
		return a.cmdUpdate(ctx, rest, stdout)
	case "delete":
		return a.cmdDelete(ctx, rest, stdout)
	case "list":
		return a.cmdList(ctx, rest, stdout)
	case "category":
		return a.cmdCategory(ctx, rest, stdout)
	case "budget":
		return a.cmdBudget(ctx, rest, stdout)
	case "overview":
		return a.cmdOverview(ctx, rest, stdout)
	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) cmdAdd(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(stdout)
	amount := fs.String("amount", "", "Amount, e.g. 12.50")
	kind := fs.String("kind", "expense", "Transaction kind: income or expense")
	categoryID := fs.Int64("category", 0, "Category id (optional)")
	desc := fs.String("desc", "", "Description")
	date := fs.String("date", time.Now().Format("2006-01-02"), "Transaction date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in, err := buildInput(*amount, *kind, *categoryID, *desc, *date)
	if err != nil {
		return err
	}
	t, err := a.ledger.AddTransaction(ctx, a.ownerID, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Recorded %s %s (id %d)\n", t.Kind, t.Amount, t.ID)
	return nil
}

func (a *app) cmdUpdate(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(stdout)
	id := fs.Int64("id", 0, "Transaction id")
	amount := fs.String("amount", "", "Amount, e.g. 12.50")
	kind := fs.String("kind", "expense", "Transaction kind: income or expense")
	categoryID := fs.Int64("category", 0, "Category id (optional)")
	desc := fs.String("desc", "", "Description")
	date := fs.String("date", "", "Transaction date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("missing -id")
	}

	in, err := buildInput(*amount, *kind, *categoryID, *desc, *date)
	if err != nil {
		return err
	}
	t, err := a.ledger.UpdateTransaction(ctx, *id, a.ownerID, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Updated transaction %d\n", t.ID)
	return nil
}

func (a *app) cmdDelete(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(stdout)
	id := fs.Int64("id", 0, "Transaction id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("missing -id")
	}
	if err := a.ledger.DeleteTransaction(ctx, *id, a.ownerID); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Deleted transaction %d\n", *id)
	return nil
}

func (a *app) cmdList(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stdout)
	search := fs.String("search", "", "Filter by description or category name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ts, err := a.ledger.ListTransactions(ctx, a.ownerID, *search)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tKIND\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, t := range ts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date.Format("2006-01-02"), t.Kind, t.Amount, t.CategoryName, t.Description)
	}
	return w.Flush()
}

func (a *app) cmdCategory(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("category needs a subcommand: add or list")
	}
	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("category add", flag.ContinueOnError)
		fs.SetOutput(stdout)
		name := fs.String("name", "", "Category name")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		c, err := a.categories.CreateCategory(ctx, a.ownerID, *name)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Created category %q (id %d)\n", c.Name, c.ID)
		return nil
	case "list":
		cs, err := a.categories.ListCategories(ctx, a.ownerID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		for _, c := range cs {
			fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Name)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown category subcommand %q", args[0])
	}
}

func (a *app) cmdBudget(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("budget needs a subcommand: set, update, delete or list")
	}
	switch args[0] {
	case "set":
		fs := flag.NewFlagSet("budget set", flag.ContinueOnError)
		fs.SetOutput(stdout)
		categoryID := fs.Int64("category", 0, "Category id")
		amount := fs.String("amount", "", "Budget amount, e.g. 500.00")
		month := fs.String("month", time.Now().Format("2006-01"), "Budget month (YYYY-MM)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		m, err := parseMoney(*amount)
		if err != nil {
			return err
		}
		day, err := parseMonth(*month)
		if err != nil {
			return err
		}
		b, err := a.budgets.SetBudget(ctx, a.ownerID, *categoryID, m, day)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Budget %s for %s set to %s (id %d)\n",
			b.StartDate.Format("2006-01"), b.CategoryName, b.Amount, b.ID)
		return nil
	case "update":
		fs := flag.NewFlagSet("budget update", flag.ContinueOnError)
		fs.SetOutput(stdout)
		id := fs.Int64("id", 0, "Budget id")
		amount := fs.String("amount", "", "Budget amount, e.g. 500.00")
		month := fs.String("month", time.Now().Format("2006-01"), "Budget month (YYYY-MM)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("missing -id")
		}
		m, err := parseMoney(*amount)
		if err != nil {
			return err
		}
		day, err := parseMonth(*month)
		if err != nil {
			return err
		}
		b, err := a.budgets.UpdateBudget(ctx, *id, a.ownerID, m, day)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Budget %d updated: %s for %s\n", b.ID, b.Amount, b.StartDate.Format("2006-01"))
		return nil
	case "delete":
		fs := flag.NewFlagSet("budget delete", flag.ContinueOnError)
		fs.SetOutput(stdout)
		id := fs.Int64("id", 0, "Budget id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("missing -id")
		}
		if err := a.budgets.DeleteBudget(ctx, *id, a.ownerID); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deleted budget %d\n", *id)
		return nil
	case "list":
		bs, err := a.budgets.ListBudgets(ctx, a.ownerID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tMONTH\tCATEGORY\tAMOUNT")
		for _, b := range bs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", b.ID, b.StartDate.Format("2006-01"), b.CategoryName, b.Amount)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown budget subcommand %q", args[0])
	}
}

func (a *app) cmdOverview(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("overview", flag.ContinueOnError)
	fs.SetOutput(stdout)
	search := fs.String("search", "", "Filter transactions before aggregating")
	if err := fs.Parse(args); err != nil {
		return err
	}

	o, err := a.overviews.Overview(ctx, a.ownerID, *search)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Income:   %s\n", o.TotalIncome)
	fmt.Fprintf(stdout, "Expenses: %s\n", o.TotalExpenses)
	fmt.Fprintf(stdout, "Balance:  %s\n", o.Balance)

	if len(o.ByCategory) > 0 {
		fmt.Fprintln(stdout, "\nSpend per category:")
		w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		for _, ca := range o.ByCategory {
			fmt.Fprintf(w, "  %s\t%s\n", ca.Name, ca.Amount)
		}
		w.Flush()
	}

	if len(o.Budgets) > 0 {
		fmt.Fprintln(stdout, "\nBudgets:")
		w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  MONTH\tCATEGORY\tBUDGET\tSPENT\tREMAINING")
		for _, bs := range o.Budgets {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
				bs.Budget.StartDate.Format("2006-01"), bs.Budget.CategoryName,
				bs.Budget.Amount, bs.Spent, bs.Remaining)
		}
		w.Flush()
	}
	return nil
}

func buildInput(amount, kind string, categoryID int64, desc, date string) (services.TransactionInput, error) {
	in := services.TransactionInput{
		Kind:        core.Kind(kind),
		Description: desc,
	}
	if amount != "" {
		m, err := parseMoney(amount)
		if err != nil {
			return services.TransactionInput{}, err
		}
		in.Amount = m
	}
	if categoryID != 0 {
		in.CategoryID = &categoryID
	}
	if date != "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			return services.TransactionInput{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", date)
		}
		in.Date = d
	}
	return in, nil
}

func parseMoney(s string) (core.Money, error) {
	if s == "" {
		return core.Money{}, fmt.Errorf("missing -amount")
	}
	return core.ParseMoney(s)
}

func parseMonth(s string) (time.Time, error) {
	d, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: use YYYY-MM", s)
	}
	return d, nil
}
