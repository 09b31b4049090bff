// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package babel_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/luxfi/babel"
	"github.com/luxfi/babel/transport"
	"github.com/luxfi/babel/xmlcodec"
)

type configSuite struct{}

var _ = gc.Suite(&configSuite{})

const sampleConfig = `
base-url: https://svc.example.com/api
format: xml
timeout: 10s
retry-count: 2
retry-delay: 250ms
headers:
  X-Tenant: acme
`

func (s *configSuite) TestParse(c *gc.C) {
	cfg, err := babel.ParseConfig([]byte(sampleConfig))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg, jc.DeepEquals, babel.Config{
		BaseURL:    "https://svc.example.com/api",
		Format:     "xml",
		Timeout:    10 * time.Second,
		RetryCount: 2,
		RetryDelay: 250 * time.Millisecond,
		Headers:    map[string]string{"X-Tenant": "acme"},
	})
}

func (s *configSuite) TestMarshalRoundTrip(c *gc.C) {
	cfg := babel.Config{BaseURL: "http://localhost:8080", Timeout: time.Minute, RetryDelay: time.Second}
	data, err := cfg.Marshal()
	c.Assert(err, jc.ErrorIsNil)
	c.Check(string(data), jc.Contains, "timeout: 1m0s")

	back, err := babel.ParseConfig(data)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(back, jc.DeepEquals, cfg)
}

func (s *configSuite) TestReadConfig(c *gc.C) {
	path := filepath.Join(c.MkDir(), "babel.yaml")
	c.Assert(os.WriteFile(path, []byte(sampleConfig), 0o600), jc.ErrorIsNil)
	cfg, err := babel.ReadConfig(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(cfg.Format, gc.Equals, "xml")

	_, err = babel.ReadConfig(filepath.Join(c.MkDir(), "missing.yaml"))
	c.Check(err, gc.NotNil)
}

func (s *configSuite) TestValidate(c *gc.C) {
	for i, test := range []struct {
		cfg babel.Config
		msg string
	}{
		{babel.Config{}, "empty base-url not valid"},
		{babel.Config{BaseURL: "ftp://h"}, `base-url scheme "ftp" not valid`},
		{babel.Config{BaseURL: "http://"}, `base-url "http://" without host not valid`},
		{babel.Config{BaseURL: "http://h", Format: "csv"}, `format "csv" not valid`},
		{babel.Config{BaseURL: "http://h", Timeout: -1}, `negative timeout .* not valid`},
		{babel.Config{BaseURL: "http://h", RetryCount: -1}, `negative retry-count -1 not valid`},
		{babel.Config{BaseURL: "http://h", RetryDelay: -time.Second}, `negative retry-delay -1s not valid`},
	} {
		c.Logf("test %d", i)
		err := test.cfg.Validate()
		c.Check(err, jc.ErrorIs, errors.NotValid)
		c.Check(err, gc.ErrorMatches, test.msg)
	}
	c.Check(babel.Config{BaseURL: "http://h", Format: "JSON"}.Validate(), jc.ErrorIsNil)
}

func (s *configSuite) TestParseErrors(c *gc.C) {
	_, err := babel.ParseConfig([]byte("base-url: [oops"))
	c.Check(err, gc.ErrorMatches, "parsing babel config: .*")

	_, err = babel.ParseConfig([]byte("timeout: 5s"))
	c.Check(err, jc.ErrorIs, errors.NotValid)
}

func (s *configSuite) TestDial(c *gc.C) {
	client, err := babel.Dial("Svc", babel.Config{BaseURL: "http://h", Format: "xml", RetryCount: 4, Headers: map[string]string{"A": "b"}})
	c.Assert(err, jc.ErrorIsNil)
	count, _ := client.RetryPolicy()
	c.Check(count, gc.Equals, 4)
	c.Check(client.Headers.Get("A"), gc.Equals, "b")

	t, ok := client.Transport().(*transport.HTTP)
	c.Assert(ok, jc.IsTrue)
	c.Check(t.Codec().ContentType(), gc.Equals, xmlcodec.ContentType)
	c.Check(t.BaseURL(), gc.Equals, "http://h")

	_, err = babel.Dial("Svc", babel.Config{})
	c.Check(err, jc.ErrorIs, errors.NotValid)
}
