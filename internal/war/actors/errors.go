package actors

import "WarSim/modules/kit/errx"

var errNotOnline = errx.ErrUnavailable.WithData("actor", "flush")
