package itinerary

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "itinerary")
