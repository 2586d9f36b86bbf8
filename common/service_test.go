package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordService struct {
	BaseService
	events  *[]string
	initErr error
}

func (p *recordService) Init() error {
	*p.events = append(*p.events, "init:"+p.SName)
	return p.initErr
}

func (p *recordService) Start() bool {
	*p.events = append(*p.events, "start:"+p.SName)
	return true
}

func (p *recordService) Stop() bool {
	*p.events = append(*p.events, "stop:"+p.SName)
	return true
}

func TestServices(t *testing.T) {
	var events []string
	as := &recordService{BaseService: BaseService{SName: "a", Order: 1}, events: &events}
	bs := &recordService{BaseService: BaseService{SName: "b", Order: 2}, events: &events}
	s := NewServices(bs, as)
	assert.True(t, s.Init())
	assert.True(t, s.Start())
	assert.Equal(t, RUNNING, as.State())
	assert.True(t, s.Stop())
	assert.Equal(t, TERMINATED, bs.State())
	assert.Equal(t, []string{"init:a", "init:b", "start:a", "start:b", "stop:b", "stop:a"}, events)
}

func TestServiceInitFail(t *testing.T) {
	var events []string
	as := &recordService{BaseService: BaseService{SName: "a"}, events: &events, initErr: errors.New("boom")}
	assert.False(t, ServiceInit(as))
	assert.Equal(t, FAILED, as.State())
	assert.False(t, ServiceStart(as))
}

func TestIsValidServiceState(t *testing.T) {
	assert.True(t, IsValidServiceState(NEW, INITED))
	assert.True(t, IsValidServiceState(RUNNING, STOPPING))
	assert.False(t, IsValidServiceState(TERMINATED, RUNNING))
	assert.False(t, IsValidServiceState(NEW, RUNNING))
	assert.Equal(t, "RUNNING", RUNNING.String())
}
