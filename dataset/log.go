package dataset

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "dataset")
