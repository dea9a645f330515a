package signal

func (ctl *ChatWSController) handlePing(
	conn *wsChatConn,
) {
	ctl.sendJSON(conn, []byte(`{"type":"pong"}`))
}
