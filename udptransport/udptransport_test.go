package udptransport

import (
	"errors"
	"net"
	"testing"
)

func TestSendPayloadResolveError(t *testing.T) {
	wantErr := errors.New("no such interface")
	tr := &Transport{
		resolve: func(uint32) (*net.Interface, error) { return nil, wantErr },
	}
	err := tr.SendPayload(net.IPv4(224, 0, 0, 9), net.IPv4(224, 0, 0, 9), 0, []byte("x"))
	if err == nil {
		t.Fatal("expected an error when the interface resolver fails")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped resolver error, got %v", err)
	}
}

func TestCloseNilConnIsNoop(t *testing.T) {
	tr := &Transport{}
	if err := tr.Close(); err != nil {
		t.Errorf("Close on a Transport with no conn should be a no-op, got %v", err)
	}
}
