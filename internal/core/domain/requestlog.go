package domain

import "time"

// RequestLog records one served HTTP request for the dashboard's traffic
// views. Written by middleware after the response finishes.
type RequestLog struct {
	ID           uint      `json:"id"`
	IP           string    `json:"ip"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	StatusCode   int       `json:"statusCode"`
	ResponseTime float64   `json:"responseTime"` // milliseconds
	Timestamp    time.Time `json:"timestamp"`
}
