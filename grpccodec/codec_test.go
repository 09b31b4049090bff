// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package grpccodec_test

import (
	"context"
	"net"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	gc "gopkg.in/check.v1"

	"github.com/luxfi/babel/faults"
	"github.com/luxfi/babel/grpccodec"
	"github.com/luxfi/babel/internal/modeltest"
	"github.com/luxfi/babel/model"
)

type codecSuite struct{}

var _ = gc.Suite(&codecSuite{})

func (s *codecSuite) TestRegistered(c *gc.C) {
	c.Check(encoding.GetCodec("babel-json"), gc.Equals, encoding.Codec(grpccodec.JSON))
	c.Check(encoding.GetCodec("babel-xml"), gc.Equals, encoding.Codec(grpccodec.XML))
}

func (s *codecSuite) TestMarshalRoundTrip(c *gc.C) {
	for _, codec := range []*grpccodec.Codec{grpccodec.JSON, grpccodec.XML} {
		data, err := codec.Marshal(modeltest.NewJoke("q", "a"))
		c.Assert(err, jc.ErrorIsNil)

		var j modeltest.Joke
		c.Assert(codec.Unmarshal(data, &j), jc.ErrorIsNil)
		ok, path := model.Compare(&j, modeltest.NewJoke("q", "a"))
		c.Check(ok, jc.IsTrue, gc.Commentf("%s differs at %s", codec.Name(), path))
	}
}

func (s *codecSuite) TestUnmarshalEdges(c *gc.C) {
	j := modeltest.Joke{Question: "keep"}
	c.Check(grpccodec.JSON.Unmarshal([]byte("null"), &j), jc.ErrorIsNil)
	c.Check(j.Question, gc.Equals, "keep")
	c.Check(grpccodec.JSON.Unmarshal([]byte("{}"), nil), jc.ErrorIsNil)

	var out string
	c.Check(grpccodec.JSON.Unmarshal([]byte(`"x"`), &out), jc.ErrorIs, errors.NotSupported)
	c.Check(grpccodec.JSON.Unmarshal([]byte(`{`), &j), gc.NotNil)
}

type serviceSuite struct {
	listener *bufconn.Listener
	server   *grpc.Server
	conn     *grpc.ClientConn
}

var _ = gc.Suite(&serviceSuite{})

func (s *serviceSuite) SetUpTest(c *gc.C) {
	s.listener = bufconn.Listen(1 << 20)
	s.server = grpc.NewServer()
	s.server.RegisterService(grpccodec.Service("Accounts",
		grpccodec.Method("Echo", modeltest.EchoType, func(_ context.Context, req model.Model) (any, error) {
			r := req.(*modeltest.EchoRequest)
			reply := &modeltest.EchoReply{}
			for range *r.Count {
				reply.Items = append(reply.Items, r.Text)
			}
			return reply, nil
		}),
		grpccodec.Method("Open", modeltest.AccountType, func(_ context.Context, req model.Model) (any, error) {
			if err := faults.Validate(req); err != nil {
				return nil, err
			}
			return &modeltest.EchoReply{Items: []string{req.(*modeltest.Account).Name}}, nil
		}),
		grpccodec.Method("Crash", modeltest.EchoType, func(context.Context, model.Model) (any, error) {
			return nil, errors.New("disk full")
		}),
	), nil)
	go func() { _ = s.server.Serve(s.listener) }()

	conn, err := grpccodec.Dial("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return s.listener.DialContext(ctx)
		}))
	c.Assert(err, jc.ErrorIsNil)
	s.conn = conn
}

func (s *serviceSuite) TearDownTest(c *gc.C) {
	_ = s.conn.Close()
	s.server.Stop()
}

func (s *serviceSuite) TestCall(c *gc.C) {
	for _, codec := range []*grpccodec.Codec{grpccodec.JSON, grpccodec.XML} {
		c.Logf("codec %s", codec.Name())
		client := grpccodec.NewClient(s.conn, "Accounts", codec)

		var reply modeltest.EchoReply
		err := client.Call(context.Background(), "Echo", &modeltest.EchoRequest{Text: "hi", Count: modeltest.Ptr(int32(2))}, &reply)
		c.Assert(err, jc.ErrorIsNil)
		c.Check(reply.Items, jc.DeepEquals, []string{"hi", "hi"})

		reply = modeltest.EchoReply{}
		err = client.Call(context.Background(), "Echo", &modeltest.EchoRequest{Text: "x"}, &reply)
		c.Assert(err, jc.ErrorIsNil)
		c.Check(reply.Items, jc.DeepEquals, []string{"x"})
	}
}

func (s *serviceSuite) TestValidationFault(c *gc.C) {
	client := grpccodec.NewClient(s.conn, "Accounts", grpccodec.JSON)
	err := client.Call(context.Background(), "Open", &modeltest.Account{}, &modeltest.EchoReply{})

	var fault faults.Fault
	c.Assert(errors.As(err, &fault), jc.IsTrue, gc.Commentf("%v", err))
	c.Check(fault.Kind(), gc.Equals, faults.InvalidRequest)
	c.Check(fault.Errors()[0].Code, gc.Equals, faults.CodeValidationError)
}

func (s *serviceSuite) TestUnexpectedFault(c *gc.C) {
	client := grpccodec.NewClient(s.conn, "Accounts", grpccodec.XML)
	err := client.Notify(context.Background(), "Crash", &modeltest.EchoRequest{})

	var fault faults.Fault
	c.Assert(errors.As(err, &fault), jc.IsTrue, gc.Commentf("%v", err))
	c.Check(fault.Kind(), gc.Equals, faults.Unexpected)
	c.Check(err, gc.ErrorMatches, "disk full")
	c.Check(fault.Errors()[0].Code, gc.Equals, faults.CodeInternalError)
}

func (s *serviceSuite) TestPlainStatusPassesThrough(c *gc.C) {
	client := grpccodec.NewClient(s.conn, "Accounts", grpccodec.JSON)
	err := client.Notify(context.Background(), "Missing", nil)
	c.Check(status.Code(err), gc.Equals, codes.Unimplemented)

	c.Check(client.Notify(context.Background(), "", nil), jc.ErrorIs, errors.NotValid)
}
