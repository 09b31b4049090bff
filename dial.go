// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package babel

import (
	"github.com/juju/errors"

	"github.com/luxfi/babel/codec"
	"github.com/luxfi/babel/transport"
)

// Dial returns a client for the service described by cfg. The options are
// applied after those derived from cfg, so they take precedence.
func Dial(name string, cfg Config, opts ...transport.Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	cd, err := codec.Lookup(cfg.format())
	if err != nil {
		return nil, errors.Trace(err)
	}

	base := []transport.Option{transport.WithRetry(cfg.RetryCount, cfg.RetryDelay)}
	if cfg.Timeout > 0 {
		base = append(base, transport.WithTimeout(cfg.Timeout))
	}
	t, err := transport.NewHTTP(cd, cfg.BaseURL, append(base, opts...)...)
	if err != nil {
		return nil, errors.Annotatef(err, "dialing %s", name)
	}

	c, err := NewClient(name, t)
	if err != nil {
		return nil, errors.Trace(err)
	}
	for k, v := range cfg.Headers {
		c.Headers.Set(k, v)
	}
	logger.Debugf("dialed %s at %s using %s", name, cfg.BaseURL, cd.ContentType())
	return c, nil
}
