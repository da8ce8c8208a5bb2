package monitor

import "time"

type Status struct {
	Storage   bool      `json:"storage"`
	Redis     bool      `json:"redis"`
	LastCheck time.Time `json:"last_check"`
}
