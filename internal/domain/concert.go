package domain

import "time"

// Concert is the event a seat belongs to.
type Concert struct {
	ID       string
	Name     string
	StartsAt time.Time
}
