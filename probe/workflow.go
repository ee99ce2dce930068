package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/siegeai/siegeprobe/schemacheck"
)

const (
	DefaultEndpoint   = "http://127.0.0.1:8000"
	DefaultPause      = 100 * time.Millisecond
	DefaultItemID     = "123"
	DefaultSchemaFile = "fake_openapi.json"
)

// Workflow runs create, get and schema fetch one after the other. Step failures
// end up in Out and never stop the run.
type Workflow struct {
	Client     *Client
	Item       Item
	ItemID     string
	Pause      time.Duration
	SchemaFile string
	Out        io.Writer
}

func NewWorkflow(client *Client, out io.Writer) *Workflow {
	return &Workflow{
		Client:     client,
		Item:       LaptopItem(),
		ItemID:     DefaultItemID,
		Pause:      DefaultPause,
		SchemaFile: DefaultSchemaFile,
		Out:        out,
	}
}

// Run only returns an error when ctx is done before the last step; the schema
// result is returned either way.
func (w *Workflow) Run(ctx context.Context) (schemacheck.Result, error) {
	w.CreateItem(ctx)
	if err := sleep(ctx, w.Pause); err != nil {
		return schemacheck.Result{Err: err}, err
	}

	w.GetItem(ctx)
	if err := sleep(ctx, w.Pause); err != nil {
		return schemacheck.Result{Err: err}, err
	}

	return w.FetchAndValidateSchema(ctx), nil
}

func (w *Workflow) CreateItem(ctx context.Context) {
	body, err := w.Client.CreateItem(ctx, w.Item)
	w.print("create item", body, err)
}

func (w *Workflow) GetItem(ctx context.Context) {
	body, err := w.Client.GetItem(ctx, w.ItemID)
	w.print("get item", body, err)
}

// FetchAndValidateSchema persists the raw schema response, re-reads it from disk
// and prints whether it parses. A failed fetch leaves an empty file behind.
func (w *Workflow) FetchAndValidateSchema(ctx context.Context) schemacheck.Result {
	body, err := w.Client.FetchSchema(ctx)
	if err != nil {
		slog.Warn("could not fetch schema", "err", err)
		fmt.Fprintln(w.Out, err)
	}

	if err := os.WriteFile(w.SchemaFile, body, 0o644); err != nil {
		slog.Warn("could not write schema", "file", w.SchemaFile, "err", err)
	}

	res := schemacheck.CheckFile(w.SchemaFile)
	if res.Err != nil {
		slog.Debug("schema check failed", "file", w.SchemaFile, "err", res.Err)
	}
	fmt.Fprintln(w.Out, res.Message())
	return res
}

func (w *Workflow) print(step string, body []byte, err error) {
	if err != nil {
		slog.Warn("request failed", "step", step, "err", err)
		fmt.Fprintln(w.Out, err)
		return
	}
	slog.Debug("request done", "step", step, "len(body)", len(body))
	if _, err := fmt.Fprintf(w.Out, "%s\n", body); err != nil {
		slog.Warn("could not write output", "step", step, "err", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
