package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"market-signals/src/helpers"
	"market-signals/src/report"

	"github.com/gin-gonic/gin"
)

// QueryTimeLayout is the /data path format, interpreted in the market timezone.
const QueryTimeLayout = "2006-01-02-15:04"

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *SignalServer) getHome(c *gin.Context) {
	c.JSON(http.StatusOK, "Connected to trading server")
}

// -----------------------------------------------------------------------------

// ParseQueryTime parses a /data time in loc.
func ParseQueryTime(raw string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(QueryTimeLayout, raw, loc)
	if err != nil {
		return time.Time{}, helpers.NewMalformedQueryTimeError(raw, err)
	}
	return t, nil
}

// -----------------------------------------------------------------------------

func (s *SignalServer) getData(c *gin.Context) {
	raw := c.Param("query_time")
	queryTime, err := ParseQueryTime(raw, s.Location)
	if err != nil {
		s.Logger.Info("Rejected /data query: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if s.Config.Refresh.RefreshOnQuery {
		s.Store.RefreshAll(c.Request.Context())
	}

	c.JSON(http.StatusOK, s.Store.QueryAt(queryTime))
}

// -----------------------------------------------------------------------------

func (s *SignalServer) addTicker(c *gin.Context) {
	ticker := c.Param("ticker")

	series, err := s.Store.AddTicker(c.Request.Context(), ticker)
	if err != nil {
		var dupErr *helpers.DuplicateTickerError
		if errors.As(err, &dupErr) {
			c.JSON(http.StatusAlreadyReported, fmt.Sprintf("%s already in server data", dupErr.Symbol))
			return
		}
		symbol := ticker
		var emptyErr *helpers.EmptySeriesError
		if errors.As(err, &emptyErr) {
			symbol = emptyErr.Symbol
		}
		c.JSON(http.StatusBadRequest, fmt.Sprintf("Error adding %s to server data", symbol))
		return
	}

	c.JSON(http.StatusOK, fmt.Sprintf("Added %s to server data", series.Symbol))
}

// -----------------------------------------------------------------------------

func (s *SignalServer) deleteTicker(c *gin.Context) {
	ticker := c.Param("ticker")

	if err := s.Store.DeleteTicker(ticker); err != nil {
		var unknownErr *helpers.UnknownTickerError
		if errors.As(err, &unknownErr) {
			c.JSON(http.StatusNotFound, fmt.Sprintf("%s not in server data", unknownErr.Symbol))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, fmt.Sprintf("Deleted %s from server data", helpers.NormalizeSymbol(ticker)))
}

// -----------------------------------------------------------------------------

func (s *SignalServer) getReport(c *gin.Context) {
	if s.Config.Refresh.RefreshOnQuery {
		s.Store.RefreshAll(c.Request.Context())
	}

	rows, err := report.Export(s.Store.Snapshot(), s.Location, s.Config.Report.CSVPath, s.Config.Report.XLSXPath)
	if err != nil {
		s.Logger.Error("Failed to write report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "unable to write report"})
		return
	}

	s.Logger.Info("Report written with %d rows", len(rows))
	c.JSON(http.StatusOK, "report.csv updated with latest data")
}

// -----------------------------------------------------------------------------

func (s *SignalServer) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"tickers":       len(s.Store.Symbols()),
		"connections":   s.connections.Load(),
		"latest_update": s.lastUpdate.Load(),
	})
}

// -----------------------------------------------------------------------------

func (s *SignalServer) getTickers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tickers": s.Store.Symbols()})
}

// -----------------------------------------------------------------------------

func (s *SignalServer) getHistory(c *gin.Context) {
	symbol := helpers.NormalizeSymbol(c.Param("ticker"))

	rows, err := s.Store.History(symbol)
	if err != nil {
		var unknownErr *helpers.UnknownTickerError
		if errors.As(err, &unknownErr) {
			c.JSON(http.StatusNotFound, fmt.Sprintf("%s not in server data", symbol))
			return
		}
		s.Logger.Error("History of %s failed: %v", symbol, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticker": symbol, "rows": rows})
}
