//nolint:mnd
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/wizard"

	"github.com/brianvoe/gofakeit/v7"
)

// order-generator posts fake guest orders at the public endpoint. Handy for
// smoke-testing a deployed instance and for feeding the notification
// pipeline.
func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Service base URL")
	numOrders := flag.Int("count", 1, "Number of orders to send")
	interval := flag.Duration("interval", 1*time.Second, "Interval between orders")

	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := &http.Client{Timeout: 10 * time.Second}

	log.Printf("Sending %d guest orders to %s every %v\n", *numOrders, *baseURL, *interval)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	sent := 0

	sendOrder(ctx, client, *baseURL)
	sent++
	if sent >= *numOrders {
		log.Printf("Sent all %d orders. Exiting.\n", *numOrders)
		return
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutting down generator...")
			return
		case <-ticker.C:
			sendOrder(ctx, client, *baseURL)
			sent++
			if sent >= *numOrders {
				log.Printf("Sent all %d orders. Exiting.\n", *numOrders)
				return
			}
		}
	}
}

func sendOrder(ctx context.Context, client *http.Client, baseURL string) {
	sub := generateFakeSubmission()

	body, err := json.Marshal(sub)
	if err != nil {
		log.Printf("Failed to marshal submission: %v", err)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(
		reqCtx,
		http.MethodPost,
		baseURL+"/api/guest-order",
		bytes.NewReader(body),
	)
	if err != nil {
		log.Printf("Failed to build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("Failed to send order: %v", err)
		return
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	log.Printf("Response %d: %s", resp.StatusCode, string(respBody))
}

func generateFakeSubmission() *wizard.Submission {
	sub := &wizard.Submission{
		Vehicle: generateFakeVehicle(),
		Parts:   generateFakeParts(),
		Contact: entity.Contact{
			Name:        gofakeit.Name(),
			Email:       gofakeit.Email(),
			Phone:       fmt.Sprintf("%d", gofakeit.Number(1000000000, 9999999999)),
			CountryCode: "+7",
			City:        gofakeit.City(),
			Comments:    gofakeit.Sentence(6),
		},
	}
	return sub
}

func generateFakeVehicle() entity.Vehicle {
	categories := []entity.VehicleCategory{
		entity.CategoryPassenger,
		entity.CategoryCommercial,
		entity.CategoryChinese,
	}
	category := categories[gofakeit.Number(0, len(categories)-1)]

	// Chinese-market vehicles only accept manual identification.
	if category != entity.CategoryChinese && gofakeit.Bool() {
		return entity.Vehicle{
			Category: category,
			VIN:      gofakeit.Regex(`[A-HJ-NPR-Z0-9]{17}`),
		}
	}

	return entity.Vehicle{
		Category:     category,
		Make:         gofakeit.CarMaker(),
		Model:        gofakeit.CarModel(),
		Year:         gofakeit.Number(1995, time.Now().Year()),
		EngineVolume: fmt.Sprintf("%.1f", float64(gofakeit.Number(10, 50))/10),
		FuelType:     gofakeit.CarFuelType(),
	}
}

func generateFakeParts() []entity.Part {
	count := gofakeit.Number(1, 5)
	parts := make([]entity.Part, 0, count)
	for i := 0; i < count; i++ {
		parts = append(parts, entity.Part{
			Name:        gofakeit.CarModel() + " " + gofakeit.Word(),
			Quantity:    gofakeit.Number(1, 4),
			SKU:         gofakeit.UUID(),
			Brand:       gofakeit.Company(),
			Description: gofakeit.Sentence(5),
			Position:    i,
		})
	}
	return parts
}
