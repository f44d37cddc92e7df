package resource

import "github.com/cogentcore/webgpu/wgpu"

// Texture is a GPU-resident texture with its sampled view.
// Produced by texture fetchers and owned by the cache; Release frees the
// underlying wgpu handles exactly once.
type Texture struct {
	// Label identifies the texture in GPU debug tooling.
	Label string

	// Tex is the underlying GPU texture.
	Tex *wgpu.Texture

	// View is the sampled view bound into material bind groups.
	View *wgpu.TextureView

	// Width and Height are the texture dimensions in texels.
	Width, Height uint32
}

var _ Resource = &Texture{}

// Release frees the texture view and texture.
func (t *Texture) Release() {
	if t.View != nil {
		t.View.Release()
		t.View = nil
	}
	if t.Tex != nil {
		t.Tex.Release()
		t.Tex = nil
	}
}

// Mesh is a GPU-resident vertex/index buffer pair for a loaded model.
type Mesh struct {
	// Label identifies the mesh in GPU debug tooling.
	Label string

	// VertexBuffer holds the packed vertex data.
	VertexBuffer *wgpu.Buffer

	// IndexBuffer holds the index data.
	IndexBuffer *wgpu.Buffer

	// IndexCount is the number of indices to draw.
	IndexCount uint32
}

var _ Resource = &Mesh{}

// Release frees the vertex and index buffers.
func (m *Mesh) Release() {
	if m.VertexBuffer != nil {
		m.VertexBuffer.Release()
		m.VertexBuffer = nil
	}
	if m.IndexBuffer != nil {
		m.IndexBuffer.Release()
		m.IndexBuffer = nil
	}
}
