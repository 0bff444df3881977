package stubs

import (
	"sync/atomic"
	"time"

	"accountgraph/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
)

var accountIDSequence int64

type AccountStub struct {
	account entities.Account
}

func NewAccountStub() AccountStub {
	now := time.Now().UTC()

	account := entities.Account{
		ID:        atomic.AddInt64(&accountIDSequence, 1),
		Type:      "business",
		Reference: gofakeit.UUID(),
		Name:      gofakeit.Company(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	return AccountStub{account: account}
}

func (as AccountStub) WithID(id int64) AccountStub {
	as.account.ID = id
	return as
}

func (as AccountStub) WithType(accountType string) AccountStub {
	as.account.Type = accountType
	return as
}

func (as AccountStub) WithName(name string) AccountStub {
	as.account.Name = name
	return as
}

func (as AccountStub) Get() entities.Account {
	return as.account
}
