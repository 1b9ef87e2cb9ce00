package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument — категория ошибок некорректных входных аргументов.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIllegalState — категория ошибок нарушения состояния (например, повторное создание синглтона).
	ErrIllegalState = errors.New("illegal state")
	// ErrNotFound — категория ошибок отсутствующего объекта.
	ErrNotFound = errors.New("not found")
)

var (
	// Ошибка отсутствующего клиента при создании заказа.
	ErrCustomerRequired = fmt.Errorf("%w: customer cannot be nil", ErrInvalidArgument)
	// Ошибка отсутствующего типа заказа (пустая строка допустима, nil — нет).
	ErrOrderKindRequired = fmt.Errorf("%w: order kind cannot be nil", ErrInvalidArgument)
	// ErrDiscountNotApplicable возвращается при попытке задать скидку обычному заказу.
	ErrDiscountNotApplicable = fmt.Errorf("%w: discount applies to bulk orders only", ErrInvalidArgument)
	// ErrStoreAlreadyInitialized — хранилище заказов является синглтоном и уже создано.
	ErrStoreAlreadyInitialized = fmt.Errorf("%w: order store is a singleton: instance already exists", ErrIllegalState)
	// ErrObserverNotAttached — наблюдатель не подписан на заказ.
	ErrObserverNotAttached = fmt.Errorf("%w: observer is not attached to order", ErrNotFound)
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsInvalidArgument проверяет, относится ли ошибка к некорректным аргументам.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsIllegalState проверяет, относится ли ошибка к нарушению состояния.
func IsIllegalState(err error) bool {
	return errors.Is(err, ErrIllegalState)
}

// IsNotFound проверяет, сообщает ли ошибка об отсутствующем объекте.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
