// cmd/historian/main.go is an asynchronous historian that pops match
// action records from the Redis queue and persists them to Postgres.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"deberts/internal/database"
	"deberts/internal/history"
)

// Historian drains the action queue into the database in batches.
type Historian struct {
	redisClient *redis.Client
	queueName   string
	batchSize   int
	flushDelay  time.Duration

	batchMu  sync.Mutex
	batch    []history.ActionRecord
	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewHistorian constructs a Historian from environment variables or defaults.
func NewHistorian() *Historian {
	rdb := redis.NewClient(&redis.Options{
		Addr: history.GetEnv("REDIS_ADDR", "localhost:6379"),
		DB:   history.GetEnvInt("REDIS_DB", 0),
	})

	batchSize := history.GetEnvInt("HISTORIAN_BATCH_SIZE", 20)
	ctx, cancel := context.WithCancel(context.Background())
	return &Historian{
		redisClient: rdb,
		queueName:   history.GetEnv("HISTORIAN_QUEUE_NAME", history.DefaultQueueName),
		batchSize:   batchSize,
		flushDelay:  time.Duration(history.GetEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond,
		batch:       make([]history.ActionRecord, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run connects to the database and drains the queue until Stop is called.
func (h *Historian) Run() {
	database.ConnectDB()
	go h.readQueueLoop()

	log.Println("deberts-historian started.")
	<-h.ctx.Done()
	h.flushBatch()
	log.Println("deberts-historian shutting down.")
}

// readQueueLoop BLPops records off the queue, accumulating them into the
// batch and flushing on size or on the periodic timer.
func (h *Historian) readQueueLoop() {
	ticker := time.NewTicker(h.flushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case <-ticker.C:
			h.flushBatch()

		default:
			// BLPop with a short timeout so cancellation is picked up.
			res, err := h.redisClient.BLPop(h.ctx, 3*time.Second, h.queueName).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && !errors.Is(err, context.Canceled) {
					log.Printf("[ERROR] BLPop: %v", err)
				}
				continue
			}
			if len(res) < 2 {
				continue
			}

			var rec history.ActionRecord
			if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
				log.Printf("invalid action record: %v", err)
				continue
			}
			h.appendToBatch(rec)
		}
	}
}

func (h *Historian) appendToBatch(rec history.ActionRecord) {
	h.batchMu.Lock()
	h.batch = append(h.batch, rec)
	full := len(h.batch) >= h.batchSize
	h.batchMu.Unlock()
	if full {
		h.flushBatch()
	}
}

// flushBatch writes the pending records to the database in one transaction.
func (h *Historian) flushBatch() {
	h.batchMu.Lock()
	if len(h.batch) == 0 {
		h.batchMu.Unlock()
		return
	}
	pending := make([]history.ActionRecord, len(h.batch))
	copy(pending, h.batch)
	h.batch = h.batch[:0]
	h.batchMu.Unlock()

	if err := database.InsertActionBatch(context.Background(), pending); err != nil {
		log.Printf("[ERROR] flushBatch: %v", err)
		return
	}
	log.Printf("Flushed %d actions to DB.", len(pending))
}

// Stop requests shutdown.
func (h *Historian) Stop() {
	h.cancelFn()
}

func main() {
	h := NewHistorian()
	go h.Run()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	<-sigs
	h.Stop()
	log.Println("Historian shutdown complete.")
}
