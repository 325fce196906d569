// signops exposes each backend operation as a standalone command invoked by
// the web application. Every run prints exactly one JSON object to stdout;
// a non-zero exit signals an unrecoverable setup error such as a missing
// store or bad usage.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/agnar3901/sign-manufacturing-app/config"
	"github.com/agnar3901/sign-manufacturing-app/internal/invoice"
	"github.com/agnar3901/sign-manufacturing-app/internal/models"
	"github.com/agnar3901/sign-manufacturing-app/internal/notify"
	"github.com/agnar3901/sign-manufacturing-app/internal/pipeline"
	"github.com/agnar3901/sign-manufacturing-app/internal/store"
	"github.com/agnar3901/sign-manufacturing-app/pkg/database"
	"github.com/agnar3901/sign-manufacturing-app/pkg/logger"
)

const usage = `Usage: signops <operation> [args]

Operations:
  process-order '<order-json>'
  get-order <invoiceId>
  get-orders '<filter-json>'
  update-status <invoiceId> <status>
  delete-order <invoiceId>
  monthly-stats
`

func main() {
	if len(os.Args) < 2 {
		fail(usage)
	}

	cfg := config.Load()
	zlog, err := logger.New(cfg.Server.LogLevel)
	if err != nil {
		fail(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer zlog.Sync()

	op := os.Args[1]
	args := os.Args[2:]

	// Every operation except processing requires the store to already
	// exist; connecting would silently create an empty one.
	if op != "process-order" && !database.Exists(cfg.Database) {
		fail("Database not found")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		fail(err.Error())
	}
	orderStore := store.New(db, zlog)

	switch op {
	case "process-order":
		if len(args) != 1 {
			fail("Usage: signops process-order '<order-json>'")
		}
		if err := orderStore.AutoMigrate(); err != nil {
			fail(err.Error())
		}

		var req pipeline.OrderRequest
		if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
			emit(pipeline.Result{Success: false, Error: "invalid order payload: " + err.Error()})
			return
		}

		renderer := invoice.NewRenderer(cfg.Company)
		dispatcher := notify.NewDispatcher(cfg.Notify, cfg.Company, zlog)
		p := pipeline.New(orderStore, renderer, dispatcher, pipeline.Options{
			BasePath:          cfg.Storage.BasePath,
			ResendOnDuplicate: cfg.Notify.ResendOnDuplicate,
		}, zlog)
		emit(p.ProcessOrder(req))

	case "get-order":
		if len(args) != 1 {
			fail("Usage: signops get-order <invoiceId>")
		}
		order, err := orderStore.GetByInvoiceID(args[0])
		if err != nil {
			emit(errResult(err))
			return
		}
		emit(map[string]interface{}{"success": true, "data": order})

	case "get-orders":
		var filterArgs struct {
			Mode   string `json:"mode"`
			Limit  int    `json:"limit"`
			Date   string `json:"date"`
			Page   int    `json:"page"`
			Search string `json:"search"`
			Status string `json:"status"`
		}
		if len(args) == 1 {
			if err := json.Unmarshal([]byte(args[0]), &filterArgs); err != nil {
				fail("invalid filter json: " + err.Error())
			}
		}
		filter := store.ListFilter{
			Status: filterArgs.Status,
			Search: filterArgs.Search,
			Page:   filterArgs.Page,
			Limit:  filterArgs.Limit,
		}
		if filterArgs.Mode == "by-date" {
			filter.Date = filterArgs.Date
		}
		result, err := orderStore.List(filter)
		if err != nil {
			emit(map[string]interface{}{"success": false, "error": err.Error(), "orders": []models.Order{}, "total": 0})
			return
		}
		emit(map[string]interface{}{"success": true, "orders": result.Orders, "total": result.Total})

	case "update-status":
		if len(args) != 2 {
			fail("Usage: signops update-status <invoiceId> <status>")
		}
		if err := orderStore.UpdateStatus(args[0], args[1]); err != nil {
			emit(errResult(err))
			return
		}
		emit(map[string]interface{}{"success": true})

	case "delete-order":
		if len(args) != 1 {
			fail("Usage: signops delete-order <invoiceId>")
		}
		if err := orderStore.Delete(args[0]); err != nil {
			emit(errResult(err))
			return
		}
		emit(map[string]interface{}{"success": true})

	case "monthly-stats":
		stats, err := orderStore.GetMonthlyStats()
		if err != nil {
			emit(map[string]interface{}{"success": false, "error": err.Error(), "stats": map[string]interface{}{}})
			return
		}
		emit(map[string]interface{}{"success": true, "stats": stats})

	default:
		fail(usage)
	}
}

func errResult(err error) map[string]interface{} {
	msg := err.Error()
	if errors.Is(err, store.ErrOrderNotFound) {
		msg = "Order not found"
	}
	return map[string]interface{}{"success": false, "error": msg}
}

// emit writes the single JSON result object to stdout.
func emit(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("failed to encode result: %v", err)
	}
	fmt.Println(string(data))
}

// fail prints a JSON error and exits non-zero.
func fail(msg string) {
	data, _ := json.Marshal(map[string]interface{}{"success": false, "error": msg})
	fmt.Println(string(data))
	os.Exit(1)
}
