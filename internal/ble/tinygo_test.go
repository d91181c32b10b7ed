package ble

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeDeviceCharacteristic counts which write mode was used.
type fakeDeviceCharacteristic struct {
	writes         int
	commandWrites  int
	notifyCallback func([]byte)
}

func (f *fakeDeviceCharacteristic) Write(p []byte) (int, error) {
	f.writes++
	return len(p), nil
}

func (f *fakeDeviceCharacteristic) WriteWithoutResponse(p []byte) (int, error) {
	f.commandWrites++
	return len(p), nil
}

func (f *fakeDeviceCharacteristic) Read(data []byte) (int, error) { return 0, nil }

func (f *fakeDeviceCharacteristic) EnableNotifications(cb func([]byte)) error {
	f.notifyCallback = cb
	return nil
}

func TestTinyGoCharacteristicWriteMode(t *testing.T) {
	tests := []struct {
		name            string
		withoutResponse bool
		wantWrites      int
		wantCommands    int
	}{
		{"with response by default", false, 1, 0},
		{"without response when configured", true, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &fakeDeviceCharacteristic{}
			c := &tinyGoCharacteristic{char: dev, withoutResponse: tt.withoutResponse}

			if err := c.Write([]byte{0xFF, 0x05, 0x10, 0x00, 0x06, 0xAA}); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if dev.writes != tt.wantWrites || dev.commandWrites != tt.wantCommands {
				t.Errorf("writes = %d, commands = %d, want %d, %d", dev.writes, dev.commandWrites, tt.wantWrites, tt.wantCommands)
			}
		})
	}
}

func TestTinyGoCharacteristicSubscribeCopies(t *testing.T) {
	dev := &fakeDeviceCharacteristic{}
	c := &tinyGoCharacteristic{char: dev}

	var got []byte
	if err := c.Subscribe(func(b []byte) { got = b }); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	buf := []byte{0x01, 0x02}
	dev.notifyCallback(buf)
	buf[0] = 0xEE
	if got[0] != 0x01 {
		t.Errorf("callback saw reused buffer: % X", got)
	}
}

func TestAwaitConnect(t *testing.T) {
	released := make(chan int, 1)
	v, err := awaitConnect(context.Background(), func() (int, error) { return 7, nil }, func(v int) { released <- v })
	if err != nil || v != 7 {
		t.Fatalf("awaitConnect() = %d, %v, want 7", v, err)
	}
	select {
	case <-released:
		t.Error("a connection returned to the caller must not be released")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestAwaitConnectReleasesLateConnection(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	proceed := make(chan struct{})
	released := make(chan int, 1)

	connect := func() (int, error) {
		<-proceed
		return 42, nil
	}
	cancel()
	_, err := awaitConnect(ctx, connect, func(v int) { released <- v })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	close(proceed)
	select {
	case v := <-released:
		if v != 42 {
			t.Errorf("released %d, want 42", v)
		}
	case <-time.After(time.Second):
		t.Fatal("late connection was never released")
	}
}

func TestAwaitConnectLateFailureNotReleased(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	proceed := make(chan struct{})
	released := make(chan int, 1)

	connect := func() (int, error) {
		<-proceed
		return 0, errors.New("timeout")
	}
	_, err := awaitConnect(ctx, connect, func(v int) { released <- v })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	close(proceed)
	select {
	case <-released:
		t.Error("failed connection must not be released")
	case <-time.After(20 * time.Millisecond):
	}
}
