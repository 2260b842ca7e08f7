package h1

import "github.com/sirupsen/logrus"

// connLog returns a per-connection structured logger, tagging every
// entry with the connection's role so multiplexed server/client logs
// stay distinguishable.
func connLog(l *logrus.Logger, role Role) *logrus.Entry {
	r := "server"
	if role == RoleClient {
		r = "client"
	}
	return l.WithField("role", r)
}
