package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"intervalTimerService/internal/auth"
	"intervalTimerService/internal/history"
)

var counts = 0

func connectToDB(dsn string) *pgxpool.Pool {
	for {
		// keep connecting to the database
		connection, err := openDB(dsn)
		if err != nil {
			log.Printf("Postgres is not yet ready")
			counts++
		} else {
			log.Printf("Connected to Postgres!")
			return connection
		}

		if counts > 10 {
			log.Println(err)
			return nil
		}

		log.Println("Backing off for two seconds...")
		time.Sleep(2 * time.Second)
	}
}

func openDB(dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	err = pool.Ping(context.Background())
	if err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// openHistoryStore connects the interval history; the service runs on in-memory history without it
func openHistoryStore(dsn string) *history.PostgresStore {
	store, err := history.OpenPostgres(context.Background(), dsn)
	if err != nil {
		log.Printf("⚠️ Interval history store unavailable, keeping history in memory: %v", err)
		return nil
	}
	log.Printf("✅ Interval history stored in Postgres")
	return store
}

// writeJSON writes v as the JSON response body
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError writes a standardized error response
func writeError(w http.ResponseWriter, statusCode int, errorMsg, message string) {
	writeJSON(w, statusCode, auth.ErrorResponse{
		Error:   errorMsg,
		Message: message,
	})
}
