// Command consolectl drives the console views from a terminal: it prints
// the category tree, imports product files and works the order queue.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"admin-console/internal/clients"
	"admin-console/internal/config"
	"admin-console/internal/console"
	"admin-console/internal/models"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

const usage = `Usage: consolectl [flags] <command> [args]

Commands:
  tree                       print the category tree
  delete-category <id>       delete a category node (--level 1|2|3)
  import <file>              bulk upload a .csv or .xlsx product file
  template                   download the import template (--format csv|xlsx)
  orders                     list orders (--status, --source)
  order <id>                 show one order
  advance <id>               move an order to its next status
  cancel <id>                cancel an order
  complete <id>              mark an order completed
  packing-slip <id>          write the packing slip PDF (--output)

Flags:
`

type options struct {
	apiURL  string
	token   string
	yes     bool
	level   int
	format  string
	output  string
	status  string
	source  string
	verbose bool
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	var opts options
	flag.StringVar(&opts.apiURL, "api-url", cfg.APIBaseURL, "backend API base URL")
	flag.StringVar(&opts.token, "token", cfg.APIToken, "bearer token sent to the backend")
	flag.BoolVarP(&opts.yes, "yes", "y", false, "answer yes to every confirmation")
	flag.IntVar(&opts.level, "level", 1, "category level for delete-category")
	flag.StringVar(&opts.format, "format", "csv", "template format: csv or xlsx")
	flag.StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	flag.StringVar(&opts.status, "status", "", "filter orders by status")
	flag.StringVar(&opts.source, "source", "", "filter orders by source")
	flag.BoolVarP(&opts.verbose, "verbose", "v", false, "log backend requests")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	api := clients.NewAPIClient(clients.Options{
		BaseURL:   opts.apiURL,
		Timeout:   cfg.APITimeout,
		RateLimit: cfg.APIRateLimit,
		RateBurst: cfg.APIRateBurst,
		Token:     opts.token,
		Logger:    logger,
	})
	ws := console.NewWorkspace(console.WorkspaceOptions{
		Backend:   console.NewBackend(api),
		Notifier:  bannerPrinter{},
		StoreName: cfg.StoreName,
	})
	defer ws.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var confirmer console.Confirmer = console.AlwaysConfirm
	if !opts.yes {
		confirmer = promptConfirmer{in: bufio.NewReader(os.Stdin)}
	}
	ctx = console.WithConfirmer(ctx, confirmer)

	if err := run(ctx, ws, opts, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", console.Describe(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, ws *console.Workspace, opts options, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "tree":
		return printTree(ctx, ws)
	case "delete-category":
		id, err := argID(rest)
		if err != nil {
			return err
		}
		if err := ws.Categories.Load(ctx); err != nil {
			return err
		}
		return ws.Categories.Delete(ctx, models.NodeRef{Level: models.CategoryLevel(opts.level), ID: id})
	case "import":
		if len(rest) != 1 {
			return fmt.Errorf("import needs exactly one file")
		}
		return importFile(ctx, ws, rest[0])
	case "template":
		return writeTemplate(ctx, ws, opts)
	case "orders":
		return listOrders(ctx, ws, opts)
	case "order", "advance", "cancel", "complete", "packing-slip":
		id, err := argID(rest)
		if err != nil {
			return err
		}
		return orderCommand(ctx, ws, cmd, id, opts)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func argID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one id argument")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func printTree(ctx context.Context, ws *console.Workspace) error {
	if err := ws.Categories.Load(ctx); err != nil {
		return err
	}
	ws.Categories.ExpandAll()
	for _, row := range ws.Categories.Rows() {
		fmt.Printf("%s%s  (%s #%d)\n", strings.Repeat("  ", row.Indent), row.Name, row.Level, row.ID)
	}
	return nil
}

func importFile(ctx context.Context, ws *console.Workspace, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ws.BulkUpload.Open()
	result, err := ws.BulkUpload.Submit(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}
	for _, rowErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "row %d: %s\n", rowErr.Row, rowErr.Message)
	}
	if result.Successful == 0 {
		return fmt.Errorf("no products imported")
	}
	return nil
}

func writeTemplate(ctx context.Context, ws *console.Workspace, opts options) error {
	var (
		data []byte
		err  error
	)
	switch models.ImportFormat(opts.format) {
	case models.ImportFormatCSV:
		data, err = ws.BulkUpload.Template(ctx)
	case models.ImportFormatXLSX:
		data, err = ws.BulkUpload.TemplateXLSX(ctx)
	default:
		return fmt.Errorf("format must be csv or xlsx")
	}
	if err != nil {
		return err
	}
	return writeOutput(opts.output, data)
}

func listOrders(ctx context.Context, ws *console.Workspace, opts options) error {
	if err := ws.Orders.Load(ctx); err != nil {
		return err
	}
	console.FilterOrderStatus(ws.Orders, opts.status)
	console.FilterOrderSource(ws.Orders, opts.source)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCUSTOMER\tSOURCE\tTOTAL\tSTATUS")
	for _, o := range ws.Orders.Snapshot().Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.OrderDate, o.UserEmail, o.Source, models.FormatDecimal(o.TotalAmount), o.Status)
	}
	return tw.Flush()
}

func orderCommand(ctx context.Context, ws *console.Workspace, cmd string, id int64, opts options) error {
	details := ws.OrderDetails
	if err := details.Open(ctx, id); err != nil {
		return err
	}

	switch cmd {
	case "advance":
		if err := details.Advance(ctx, id); err != nil {
			return err
		}
	case "cancel":
		if err := details.Cancel(ctx, id); err != nil {
			return err
		}
	case "complete":
		if err := details.MarkCompleted(ctx, id); err != nil {
			return err
		}
	case "packing-slip":
		pdf, err := details.PackingSlip(ctx, id)
		if err != nil {
			return err
		}
		out := opts.output
		if out == "" {
			out = fmt.Sprintf("packing-slip-%d.pdf", id)
		}
		return writeOutput(out, pdf)
	}

	state, err := details.StateFor(ctx, id)
	if err != nil {
		return err
	}
	order := state.Order
	fmt.Printf("Order #%d  %s  %s\n", order.ID, order.Status, models.FormatDecimal(order.TotalAmount))
	for _, item := range order.Items {
		fmt.Printf("  %dx %s\n", item.Quantity, item.ProductName)
	}
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// promptConfirmer asks on the terminal and accepts only y or yes.
type promptConfirmer struct {
	in *bufio.Reader
}

func (p promptConfirmer) Confirm(_ context.Context, prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

type bannerPrinter struct{}

func (bannerPrinter) Notify(view string, banner models.StatusBanner) {
	fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", view, banner.Kind, banner.Message)
}
