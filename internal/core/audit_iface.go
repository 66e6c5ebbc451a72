package core

import (
	"time"

	"github.com/dkeye/ephero/internal/domain"
)

//go:generate mockgen -source=audit_iface.go -destination=mocks/mock_auditor.go -package=mocks

// Auditor receives security and performance events from the relay. Calls must
// return promptly and never fail the operation they annotate.
type Auditor interface {
	Connected(id domain.ConnID, ip, userAgent string)
	Disconnected(id domain.ConnID, ip string)
	RoomCreated(id domain.ConnID, room domain.RoomID)
	DataShared(id domain.ConnID, room domain.RoomID, size int)
	Threat(id domain.ConnID, kind string, details map[string]any)
	RateLimited(id domain.ConnID, ip string)
	Operation(name string, took time.Duration)
	Error(err error, context string)
}

// NopAuditor discards every event.
type NopAuditor struct{}

func (NopAuditor) Connected(domain.ConnID, string, string) {}
func (NopAuditor) Disconnected(domain.ConnID, string) {}
func (NopAuditor) RoomCreated(domain.ConnID, domain.RoomID) {}
func (NopAuditor) DataShared(domain.ConnID, domain.RoomID, int) {}
func (NopAuditor) Threat(domain.ConnID, string, map[string]any) {}
func (NopAuditor) RateLimited(domain.ConnID, string) {}
func (NopAuditor) Operation(string, time.Duration) {}
func (NopAuditor) Error(error, string) {}
