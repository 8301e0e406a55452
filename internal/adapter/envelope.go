package adapter

// validateEnvelope checks transport preconditions in a fixed order and
// reports only the first one violated.
func (a *Adapter) validateEnvelope(body, contentType *string) error {
	switch {
	case body == nil:
		return a.fail(StageEnvelope, "Request body is empty: no %s events to process", a.vendor.Name)
	case contentType == nil:
		return a.fail(StageEnvelope, "Request body provided but content type empty, expected %s for %s", a.vendor.ContentType, a.vendor.Name)
	case *contentType != a.vendor.ContentType:
		return a.fail(StageEnvelope, "Content type of %s provided, expected %s for %s", *contentType, a.vendor.ContentType, a.vendor.Name)
	case *body == "":
		return a.fail(StageEnvelope, "%s event body is empty: nothing to process", a.vendor.Name)
	}
	return nil
}
