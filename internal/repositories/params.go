package repositories

// viewerParam converts an optional viewer ID into a value pgx can bind to a
// uuid query parameter. Anonymous viewers carry an empty string, which must
// reach the server as NULL rather than an unparseable uuid literal.
func viewerParam(viewerID string) *string {
	if viewerID == "" {
		return nil
	}
	return &viewerID
}
