package faq

// IndexInvalidator drops a client's cached similarity index after its corpus changes.
type IndexInvalidator interface {
	Invalidate(clientID int64)
}
