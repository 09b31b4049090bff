// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpccodec_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gorilla/rpc/v2"
	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/luxfi/babel"
	"github.com/luxfi/babel/faults"
	"github.com/luxfi/babel/internal/modeltest"
	"github.com/luxfi/babel/rpccodec"
)

// Accounts is served through a gorilla rpc.Server.
type Accounts struct{}

func (*Accounts) Echo(_ *http.Request, args *modeltest.EchoRequest, reply *modeltest.EchoReply) error {
	for range *args.Count {
		reply.Items = append(reply.Items, args.Text)
	}
	return nil
}

func (*Accounts) Open(_ *http.Request, args *modeltest.Account, reply *modeltest.EchoReply) error {
	if err := faults.Validate(args); err != nil {
		return err
	}
	reply.Items = []string{args.Name}
	return nil
}

func (*Accounts) Crash(_ *http.Request, _ *modeltest.EchoRequest, _ *modeltest.EchoReply) error {
	return errors.New("boom")
}

type codecSuite struct {
	server *httptest.Server
}

var _ = gc.Suite(&codecSuite{})

func (s *codecSuite) SetUpTest(c *gc.C) {
	rs := rpc.NewServer()
	rpccodec.Register(rs)
	c.Assert(rs.RegisterService(new(Accounts), "Accounts"), jc.ErrorIsNil)
	s.server = httptest.NewServer(rs)
}

func (s *codecSuite) TearDownTest(c *gc.C) {
	s.server.Close()
}

func (s *codecSuite) client(c *gc.C, format string) *babel.Client {
	client, err := babel.Dial("Accounts", babel.Config{BaseURL: s.server.URL + "/rpc/Accounts", Format: format})
	c.Assert(err, jc.ErrorIsNil)
	return client
}

func (s *codecSuite) TestCall(c *gc.C) {
	for _, format := range []string{"json", "xml"} {
		c.Logf("format %s", format)
		var reply modeltest.EchoReply
		err := s.client(c, format).Call(context.Background(), "Echo",
			&modeltest.EchoRequest{Text: "hey", Count: modeltest.Ptr(int32(2))}, &reply)
		c.Assert(err, jc.ErrorIsNil)
		c.Check(reply.Items, jc.DeepEquals, []string{"hey", "hey"})
	}
}

func (s *codecSuite) TestDefaults(c *gc.C) {
	var reply modeltest.EchoReply
	err := s.client(c, "json").Call(context.Background(), "Echo", &modeltest.EchoRequest{Text: "one"}, &reply)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(reply.Items, jc.DeepEquals, []string{"one"})
}

func (s *codecSuite) TestFault(c *gc.C) {
	err := s.client(c, "json").Call(context.Background(), "Open", &modeltest.Account{}, &modeltest.EchoReply{})
	var fault faults.Fault
	c.Assert(errors.As(err, &fault), jc.IsTrue, gc.Commentf("%v", err))
	c.Check(fault.Kind(), gc.Equals, faults.InvalidRequest)
	c.Check(fault.Errors()[0].Code, gc.Equals, faults.CodeValidationError)
}

func (s *codecSuite) TestPlainErrorKeepsServerStatus(c *gc.C) {
	err := s.client(c, "json").Notify(context.Background(), "Crash", &modeltest.EchoRequest{})
	var fault faults.Fault
	c.Assert(errors.As(err, &fault), jc.IsTrue, gc.Commentf("%v", err))
	c.Check(fault.Kind(), gc.Equals, faults.InvalidRequest)
	c.Check(err, gc.ErrorMatches, "boom")
	c.Check(fault.Errors()[0].Code, gc.Equals, faults.CodeInternalError)
}

func (s *codecSuite) TestMissingBody(c *gc.C) {
	resp, err := http.Post(s.server.URL+"/rpc/Accounts/Echo", "application/json", strings.NewReader(""))
	c.Assert(err, jc.ErrorIsNil)
	defer resp.Body.Close()
	c.Check(resp.StatusCode, gc.Equals, http.StatusBadRequest)
	c.Check(resp.Header.Get("Cache-Control"), gc.Equals, "no-cache")
}

func (s *codecSuite) TestMethod(c *gc.C) {
	for _, test := range []struct {
		path string
		want string
		err  string
	}{
		{path: "/api/Accounts/Open", want: "Accounts.Open"},
		{path: "/Accounts/Open/", want: "Accounts.Open"},
		{path: "/Open", err: `method path "/Open" not valid`},
		{path: "/", err: `method path "/" not valid`},
	} {
		r := httptest.NewRequest(http.MethodPost, test.path, nil)
		method, err := rpccodec.NewCodec().NewRequest(r).Method()
		if test.err != "" {
			c.Check(err, gc.ErrorMatches, test.err)
			continue
		}
		c.Assert(err, jc.ErrorIsNil)
		c.Check(method, gc.Equals, test.want)
	}
}

func (s *codecSuite) TestReadRequestNeedsModel(c *gc.C) {
	r := httptest.NewRequest(http.MethodPost, "/A/B", strings.NewReader("{}"))
	var out string
	err := rpccodec.NewCodec().NewRequest(r).ReadRequest(&out)
	c.Check(err, jc.ErrorIs, errors.NotSupported)
}
