package service

import "intentguard/internal/models"

// DefaultHistoryCapacity is the number of points the sensor charts keep.
const DefaultHistoryCapacity = 20

// HistoryBuffer is the rolling sensor history of one view session:
// ordered newest-last, capped, evicting the oldest point on overflow.
type HistoryBuffer struct {
	r *ring[models.HistoryPoint]
}

// NewHistoryBuffer returns a buffer holding at most capacity points.
// A non-positive capacity falls back to DefaultHistoryCapacity.
func NewHistoryBuffer(capacity int) *HistoryBuffer {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &HistoryBuffer{r: newRing[models.HistoryPoint](capacity)}
}

func (b *HistoryBuffer) Push(p models.HistoryPoint) { b.r.push(p) }

func (b *HistoryBuffer) Len() int { return b.r.len() }

func (b *HistoryBuffer) Cap() int { return len(b.r.items) }

// Points returns a copy of the history in arrival order.
func (b *HistoryBuffer) Points() []models.HistoryPoint { return b.r.values() }

func (b *HistoryBuffer) Reset() { b.r.reset() }
