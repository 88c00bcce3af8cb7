package service

import (
	"context"
	"strings"
	"testing"

	"go-retail-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *store) giftCards() GiftCardService {
	return NewGiftCardService(fakeTx{}, s.cards, s.employees)
}

func TestGiftCardLifecycle(t *testing.T) {
	s := newStore(t)
	svc := s.giftCards()

	card, err := svc.IssueGiftCard(context.Background(), s.company.ID, s.cashier.ID, &GiftCardAmountRequest{Amount: dec("25")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(card.Code, "GC-"))
	assert.Len(t, card.Code, len("GC-")+12)
	assertDec(t, "25", card.Balance)
	assertDec(t, "25", card.InitialBalance)

	card, err = svc.RedeemGiftCard(s.company.ID, card.Code, &GiftCardAmountRequest{Amount: dec("10")})
	require.NoError(t, err)
	assertDec(t, "15", card.Balance)

	_, err = svc.RedeemGiftCard(s.company.ID, card.Code, &GiftCardAmountRequest{Amount: dec("15.01")})
	assert.ErrorIs(t, err, ErrGiftCardBalance)
	assertDec(t, "15", s.cards.rows[card.Code].Balance)

	card, err = svc.RedeemGiftCard(s.company.ID, card.Code, &GiftCardAmountRequest{Amount: dec("15")})
	require.NoError(t, err)
	assertDec(t, "0", card.Balance)

	card, err = svc.ReloadGiftCard(s.company.ID, card.Code, &GiftCardAmountRequest{Amount: dec("5")})
	require.NoError(t, err)
	assertDec(t, "5", card.Balance)
	assertDec(t, "25", card.InitialBalance)
}

func TestGiftCardRejections(t *testing.T) {
	s := newStore(t)
	svc := s.giftCards()
	frozen := &model.GiftCard{CompanyID: s.company.ID, Code: "GC-FROZENFROZEN", Balance: dec("50"), IsActive: false}
	s.cards.rows[frozen.Code] = frozen

	_, err := svc.RedeemGiftCard(s.company.ID, frozen.Code, &GiftCardAmountRequest{Amount: dec("1")})
	assert.ErrorIs(t, err, ErrGiftCardBalance)

	_, err = svc.ReloadGiftCard(s.company.ID, frozen.Code, &GiftCardAmountRequest{Amount: dec("1")})
	assert.ErrorIs(t, err, ErrValidation)
	assertDec(t, "50", frozen.Balance)

	_, err = svc.LookupGiftCard(s.company.ID, "GC-MISSINGMISSI")
	assert.ErrorIs(t, err, ErrGiftCardNotFound)

	_, err = svc.ReloadGiftCard(s.company.ID, "GC-MISSINGMISSI", &GiftCardAmountRequest{Amount: dec("1")})
	assert.ErrorIs(t, err, ErrGiftCardNotFound)

	_, err = svc.RedeemGiftCard(s.company.ID, frozen.Code, &GiftCardAmountRequest{Amount: dec("-3")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.IssueGiftCard(context.Background(), s.company.ID, s.cashier.ID, &GiftCardAmountRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}
