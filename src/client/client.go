package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"market-signals/src/logger"
	"market-signals/src/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DefaultServerAddress is used when no -server_address is given.
const DefaultServerAddress = "127.0.0.1:8000"

var serverAddressPattern = regexp.MustCompile(`^\d{1,3}.\d{1,3}.\d{1,3}.\d{1,3}:\d{1,5}$`)

// IsValidServerAddress reports whether addr looks like ip:port.
func IsValidServerAddress(addr string) bool {
	return serverAddressPattern.MatchString(addr)
}

// -----------------------------------------------------------------------------

// TradingClient drives the trading server's HTTP surface from a console.
type TradingClient struct {
	BaseURL string
	HTTP    *http.Client
	Out     io.Writer
	Logger  *logger.Logger
}

func NewTradingClient(serverAddress string, out io.Writer, log *logger.Logger) *TradingClient {
	return &TradingClient{
		BaseURL: "http://" + serverAddress,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Out:     out,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

func (c *TradingClient) request(ctx context.Context, method, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// message decodes the JSON string bodies the server answers with.
func message(body []byte) string {
	var msg string
	if err := json.Unmarshal(body, &msg); err == nil {
		return msg
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return strings.TrimSpace(string(body))
}

// -----------------------------------------------------------------------------

// Connect checks the server answers on GET /.
func (c *TradingClient) Connect(ctx context.Context) error {
	status, _, err := c.request(ctx, http.MethodGet, "/")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", status, c.BaseURL)
	}
	c.Logger.Info("Connected to trading server at %s", c.BaseURL)
	return nil
}

// -----------------------------------------------------------------------------

func (c *TradingClient) AddTicker(ctx context.Context, symbol string) error {
	status, _, err := c.request(ctx, http.MethodPost, "/add_ticker/"+symbol)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK:
		c.Logger.Info("Added ticker %s", symbol)
	case http.StatusAlreadyReported:
		c.Logger.Info("Ticker %s already in server data", symbol)
	default:
		c.Logger.Error("Error adding ticker %s to server data", symbol)
	}
	return nil
}

func (c *TradingClient) DeleteTicker(ctx context.Context, symbol string) error {
	status, _, err := c.request(ctx, http.MethodDelete, "/del_ticker/"+symbol)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK:
		c.Logger.Info("Deleted ticker %s", symbol)
	case http.StatusNotFound:
		c.Logger.Info("%s not in server data", symbol)
	default:
		c.Logger.Error("Unexpected status %d deleting %s", status, symbol)
	}
	return nil
}

func (c *TradingClient) Report(ctx context.Context) error {
	status, body, err := c.request(ctx, http.MethodGet, "/report")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		c.Logger.Error("Report failed: %s", message(body))
		return nil
	}
	c.Logger.Info("%s", message(body))
	return nil
}

// -----------------------------------------------------------------------------

// Data prints the price and signal of every ticker as of queryTime (YYYY-MM-DD-HH:MM).
func (c *TradingClient) Data(ctx context.Context, queryTime string) error {
	status, body, err := c.request(ctx, http.MethodGet, "/data/"+queryTime)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		c.Logger.Error("Server error, unable to get the latest price and signal: %s", message(body))
		return nil
	}

	var data map[string]models.MPointInTime
	if err := json.Unmarshal(body, &data); err != nil {
		return fmt.Errorf("failed to decode data response: %w", err)
	}
	c.renderData(queryTime, data)
	return nil
}

func (c *TradingClient) renderData(queryTime string, data map[string]models.MPointInTime) {
	tickers := make([]string, 0, len(data))
	for ticker := range data {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	t := table.NewWriter()
	t.SetOutputMirror(c.Out)
	t.SetTitle(queryTime)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Ticker", "Price", "Signal"})
	for _, ticker := range tickers {
		point := data[ticker]
		price, signal := "None", "None"
		if point.Price != nil {
			price = fmt.Sprintf("%.2f", *point.Price)
		}
		if point.Signal != nil {
			signal = fmt.Sprintf("%d", *point.Signal)
		}
		t.AppendRow(table.Row{ticker, price, signal})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

// -----------------------------------------------------------------------------

// Execute runs one console command. It returns true when the client should exit.
func (c *TradingClient) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "exit":
		c.Logger.Info("Exiting client")
		return true, nil
	case "report":
		return false, c.Report(ctx)
	}

	if len(fields) != 2 {
		return false, fmt.Errorf("usage: add <ticker> | delete <ticker> | data <YYYY-MM-DD-HH:MM> | report | exit")
	}
	command, arg := fields[0], fields[1]

	switch command {
	case "add":
		return false, c.AddTicker(ctx, arg)
	case "delete":
		return false, c.DeleteTicker(ctx, arg)
	case "data":
		return false, c.Data(ctx, arg)
	default:
		return false, fmt.Errorf("unknown command %q", command)
	}
}

// -----------------------------------------------------------------------------

// Run reads commands from in until exit, EOF or ctx cancellation.
func (c *TradingClient) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.Out, "Enter command: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		exit, err := c.Execute(ctx, scanner.Text())
		if err != nil {
			c.Logger.Error("%v", err)
		}
		if exit {
			return nil
		}
	}
}
