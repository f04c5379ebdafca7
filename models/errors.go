package models

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrItemNotFound         = errors.New("item not found in inventory")
	ErrItemNotAvailable     = errors.New("item is not available for withdrawal")
	ErrTradeURLNotSet       = errors.New("trade URL not set")
	ErrRequestNotFound      = errors.New("withdraw request not found")
	ErrInsufficientCrystals = errors.New("insufficient crystal balance")
	ErrNotCancellable       = errors.New("cannot cancel request in current status")
)
