package service

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TxRunner runs fc inside a database transaction. *gorm.DB satisfies it.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// Notifier pushes realtime events to the clients of one company.
type Notifier interface {
	SendToCompany(companyID string, message []byte)
}

type clock func() time.Time

// publish sends payload to the company's websocket clients without blocking the request.
func publish(n Notifier, companyID uuid.UUID, payload map[string]interface{}) {
	if n == nil {
		return
	}
	go func() {
		msg, err := json.Marshal(payload)
		if err != nil {
			return
		}
		n.SendToCompany(companyID.String(), msg)
	}()
}
