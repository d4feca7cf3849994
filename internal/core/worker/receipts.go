package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RayL2590/paymybuddy/internal/core/notifications"
)

const maxAttempts = 5

// StartReceiptWorker polls for receipt jobs enqueued by committed transfers
// and delivers them. Delivery is observational only: a failed receipt never
// touches balances or the ledger.
func StartReceiptWorker(db *pgxpool.Pool, secret string) {
	go func() {
		slog.Info("Receipt worker started")
		for {
			processJobs(db, secret)
			time.Sleep(5 * time.Second)
		}
	}()
}

func processJobs(db *pgxpool.Pool, secret string) {
	ctx := context.Background()

	// SKIP LOCKED lets multiple instances poll without stepping on each other.
	query := `
		SELECT id, url, payload, attempts
		FROM receipt_jobs
		WHERE status = 'PENDING' AND next_run_at <= NOW()
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`

	var id string
	var url string
	var payload []byte
	var attempts int

	if err := db.QueryRow(ctx, query).Scan(&id, &url, &payload, &attempts); err != nil {
		return
	}

	slog.Info("Delivering receipt", "url", url, "job_id", id)

	if sendErr := notifications.SendReceipt(url, payload, secret); sendErr != nil {
		slog.Error("Receipt delivery failed", "error", sendErr, "attempts", attempts, "job_id", id)
		nextRun := time.Now().Add(time.Duration(attempts*10+10) * time.Second)

		if attempts+1 >= maxAttempts {
			db.Exec(ctx, "UPDATE receipt_jobs SET status = 'FAILED' WHERE id = $1", id)
			slog.Error("Receipt job abandoned, max attempts reached", "job_id", id)
		} else {
			db.Exec(ctx, "UPDATE receipt_jobs SET attempts = attempts + 1, next_run_at = $2 WHERE id = $1", id, nextRun)
			slog.Info("Receipt retry scheduled", "job_id", id, "next_run", nextRun)
		}
		return
	}

	db.Exec(ctx, "UPDATE receipt_jobs SET status = 'COMPLETED' WHERE id = $1", id)
	slog.Info("Receipt delivered", "job_id", id)
}
