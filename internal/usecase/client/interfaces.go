package client

// IndexInvalidator drops a client's cached similarity index.
type IndexInvalidator interface {
	Invalidate(clientID int64)
}
