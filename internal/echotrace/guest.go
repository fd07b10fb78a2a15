package echotrace

import (
	"context"

	"github.com/loopwork/echotrace/internal/echo"
	"github.com/stealthrocket/wazergo"
	. "github.com/stealthrocket/wazergo/types"
)

const hostModuleName = "echotrace"

// NewHostModule builds the host module exposed to guest modules, letting a
// guest transformer discover the echo configuration of its host.
func NewHostModule() wazergo.HostModule[*HostModule] {
	return functions{
		"banner_size": wazergo.F0((*HostModule).BannerSize),
		"banner_read": wazergo.F2((*HostModule).BannerRead),
		"max_chunk":   wazergo.F0((*HostModule).MaxChunk),
	}
}

type HostModuleOption = wazergo.Option[*HostModule]

func WithBanner(banner string) HostModuleOption {
	return wazergo.OptionFunc(func(m *HostModule) { m.banner = banner })
}

func WithMaxChunk(maxChunk int) HostModuleOption {
	return wazergo.OptionFunc(func(m *HostModule) { m.maxChunk = int64(maxChunk) })
}

type functions wazergo.Functions[*HostModule]

func (f functions) Name() string {
	return hostModuleName
}

func (f functions) Functions() wazergo.Functions[*HostModule] {
	return (wazergo.Functions[*HostModule])(f)
}

func (f functions) Instantiate(ctx context.Context, opts ...HostModuleOption) (*HostModule, error) {
	mod := &HostModule{
		banner:   echo.DefaultBanner,
		maxChunk: echo.DefaultMaxChunk,
	}
	wazergo.Configure(mod, opts...)
	return mod, nil
}

type HostModule struct {
	banner   string
	maxChunk int64
}

func (m *HostModule) Close(ctx context.Context) error {
	return nil
}

func (m *HostModule) BannerSize(ctx context.Context) Int32 {
	return Int32(len(m.banner))
}

func (m *HostModule) BannerRead(ctx context.Context, p Pointer[Uint8], size Int32) Int32 {
	return m.bannerRead(p.Memory(), p.Offset(), size)
}

// memoryWriter is the part of wazero's api.Memory that bannerRead needs.
type memoryWriter interface {
	Write(offset uint32, v []byte) bool
}

func (m *HostModule) bannerRead(memory memoryWriter, offset uint32, size Int32) Int32 {
	if int(size) < len(m.banner) {
		return -1
	}
	if !memory.Write(offset, []byte(m.banner)) {
		return -1
	}
	return Int32(len(m.banner))
}

func (m *HostModule) MaxChunk(ctx context.Context) Int64 {
	return Int64(m.maxChunk)
}
