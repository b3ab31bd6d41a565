package domain

import "time"

// AlertEvent announces a newly created regional alert and the personalized
// fan-out it produced. Published for downstream delivery channels (SMS
// gateways, email senders, mobile push); delivery itself is not this
// service's concern.
type AlertEvent struct {
	AlertID           int64      `json:"alert_id"`
	RegionID          int64      `json:"region_id"`
	RegionName        string     `json:"region_name"`
	Level             AlertLevel `json:"alert_level"`
	Temperature       float64    `json:"temperature"`
	Message           string     `json:"message"`
	CreatedAt         time.Time  `json:"created_at"`
	ExpiresAt         time.Time  `json:"expires_at"`
	PersonalizedCount int        `json:"personalized_count"`
}
