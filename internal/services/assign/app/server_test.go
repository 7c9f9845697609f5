package server

import (
	"bufio"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net"
	"testing"
	"time"

	apperrors "github.com/Bram-Hub/assign/internal/platform/errors"
	"github.com/Bram-Hub/assign/internal/services/assign/api/wire"
	"github.com/Bram-Hub/assign/internal/services/assign/session"
)

func TestServer_DispatchRoundTrip(t *testing.T) {
	priv := startTestServerEnv(t)
	srv := startTestServer(t)
	conn := dialTestServer(t, srv.Addr())

	instructorToken := signTestToken(t, priv, 3, "dr-ada", "instructor")

	resp := roundTrip(t, conn, `{"type":"CLASS_CREATE","token":"`+instructorToken+`","payload":{"name":"Logic 101"}}`)
	if resp.Outcome != string(apperrors.CodeOK) {
		t.Fatalf("create outcome = %q, want %q (message %q)", resp.Outcome, apperrors.CodeOK, resp.Message)
	}

	resp = roundTrip(t, conn, `{"type":"CLASS_DELETE","token":"`+instructorToken+`","payload":{"class_id":1}}`)
	if resp.Outcome != string(apperrors.CodeOK) {
		t.Fatalf("delete outcome = %q, want %q (message %q)", resp.Outcome, apperrors.CodeOK, resp.Message)
	}

	resp = roundTrip(t, conn, `{"type":"CLASS_DELETE","token":"`+instructorToken+`","payload":{"class_id":1}}`)
	if resp.Outcome != string(apperrors.CodeNotFound) {
		t.Fatalf("repeat delete outcome = %q, want %q", resp.Outcome, apperrors.CodeNotFound)
	}
}

func TestServer_StudentCannotDeleteClass(t *testing.T) {
	priv := startTestServerEnv(t)
	srv := startTestServer(t)
	conn := dialTestServer(t, srv.Addr())

	studentToken := signTestToken(t, priv, 9, "learner", "student")

	resp := roundTrip(t, conn, `{"type":"CLASS_DELETE","token":"`+studentToken+`","payload":{"class_id":1}}`)
	if resp.Outcome != string(apperrors.CodeUnauthorized) {
		t.Fatalf("outcome = %q, want %q", resp.Outcome, apperrors.CodeUnauthorized)
	}
}

func TestServer_RejectsBadToken(t *testing.T) {
	startTestServerEnv(t)
	srv := startTestServer(t)
	conn := dialTestServer(t, srv.Addr())

	resp := roundTrip(t, conn, `{"type":"CLASS_CREATE","token":"not-a-token","payload":{"name":"Logic 101"}}`)
	if resp.Outcome != string(apperrors.CodeSessionTokenInvalid) {
		t.Fatalf("outcome = %q, want %q", resp.Outcome, apperrors.CodeSessionTokenInvalid)
	}
}

func TestServer_UnknownMessageType(t *testing.T) {
	priv := startTestServerEnv(t)
	srv := startTestServer(t)
	conn := dialTestServer(t, srv.Addr())

	token := signTestToken(t, priv, 3, "dr-ada", "instructor")

	resp := roundTrip(t, conn, `{"type":"CLASS_EXPLODE","token":"`+token+`","payload":{}}`)
	if resp.Outcome != string(apperrors.CodeMessageTypeUnknown) {
		t.Fatalf("outcome = %q, want %q", resp.Outcome, apperrors.CodeMessageTypeUnknown)
	}
	if resp.Metadata["Type"] != "CLASS_EXPLODE" {
		t.Fatalf("metadata type = %q, want %q", resp.Metadata["Type"], "CLASS_EXPLODE")
	}
}

func TestServer_MalformedEnvelope(t *testing.T) {
	startTestServerEnv(t)
	srv := startTestServer(t)
	conn := dialTestServer(t, srv.Addr())

	resp := roundTrip(t, conn, `{"type":`)
	if resp.Outcome != string(apperrors.CodeMessageMalformed) {
		t.Fatalf("outcome = %q, want %q", resp.Outcome, apperrors.CodeMessageMalformed)
	}
}

// startTestServerEnv configures session and storage env vars and returns the
// signing key matching the configured public key.
func startTestServerEnv(t *testing.T) ed25519.PrivateKey {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	t.Setenv("ARIS_ASSIGN_DB_PATH", t.TempDir()+"/assign.db")
	t.Setenv(session.EnvSessionIssuer, "aris")
	t.Setenv(session.EnvSessionAudience, "assign")
	t.Setenv(session.EnvSessionPublicKey, base64.RawStdEncoding.EncodeToString(pub))
	return priv
}

func startTestServer(t *testing.T) *Server {
	t.Helper()

	srv, err := NewWithAddr("127.0.0.1:0")
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(runCtx)
	}()
	t.Cleanup(func() {
		runCancel()
		select {
		case serveErr := <-serveDone:
			if serveErr != nil {
				t.Fatalf("serve: %v", serveErr)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for server shutdown")
		}
	})
	return srv
}

// testConn pairs a connection with a persistent reader so buffered response
// bytes survive across round trips.
type testConn struct {
	conn   net.Conn
	reader *bufio.Reader
}

func dialTestServer(t *testing.T, addr string) *testConn {
	t.Helper()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial assign server: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return &testConn{conn: conn, reader: bufio.NewReader(conn)}
}

func roundTrip(t *testing.T, tc *testConn, line string) wire.Response {
	t.Helper()

	if _, err := tc.conn.Write([]byte(line + "\n")); err != nil {
		t.Fatalf("write request: %v", err)
	}
	respLine, err := tc.reader.ReadBytes('\n')
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var resp wire.Response
	if err := json.Unmarshal(respLine, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return resp
}

func signTestToken(t *testing.T, priv ed25519.PrivateKey, userID int64, username, role string) string {
	t.Helper()

	header, err := json.Marshal(map[string]any{"alg": "EdDSA", "typ": "JWT"})
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}
	payload, err := json.Marshal(map[string]any{
		"iss":      "aris",
		"aud":      "assign",
		"exp":      time.Now().Add(time.Hour).Unix(),
		"user_id":  userID,
		"username": username,
		"role":     role,
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	signingInput := base64.RawURLEncoding.EncodeToString(header) + "." + base64.RawURLEncoding.EncodeToString(payload)
	signature := ed25519.Sign(priv, []byte(signingInput))
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(signature)
}
