package orders

type Status string

const (
	StatusPending        Status = "pending"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:        {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing:      {StatusOutForDelivery: true, StatusCancelled: true},
	StatusOutForDelivery: {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Previous is the status an automatic progression to s starts from.
func (s Status) Previous() (Status, bool) {
	switch s {
	case StatusPreparing:
		return StatusPending, true
	case StatusOutForDelivery:
		return StatusPreparing, true
	case StatusDelivered:
		return StatusOutForDelivery, true
	}
	return "", false
}
