package actors

import (
	"github.com/sirupsen/logrus"
)

// NodeOpt helps defines custom options
type NodeOpt func(node *Node)

// WithAddressGenerator sets the generator used for new actor addresses
func WithAddressGenerator(gen AddressGenerator) NodeOpt {
	return func(node *Node) {
		if gen != nil {
			node.generator = gen
		}
	}
}

// WithListener adds a lifecycle listener. May be given several times.
func WithListener(listener Listener) NodeOpt {
	return func(node *Node) {
		node.events.add(listener)
	}
}

// WithLogger sets the logger used for diagnostics
func WithLogger(logger logrus.FieldLogger) NodeOpt {
	return func(node *Node) {
		if logger != nil {
			node.log = logger.WithField("component", componentName)
		}
	}
}

// WithInitialCapacity sets the expected number of actors
func WithInitialCapacity(capacity int) NodeOpt {
	return func(node *Node) {
		if capacity > 0 {
			node.initialCapacity = capacity
		}
	}
}
