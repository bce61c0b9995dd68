package plane

import (
	"cmp"
	"slices"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Fog band used by the plane shader; it hides the depth fade edge.
const (
	fogNear = float32(DepthFadeStart - 40)
	fogFar  = float32(DepthFadeEnd + 60)
)

// DrawOrder returns the visible planes in drawing order: opaque planes first (they write depth),
// then translucent planes from far to near as seen from camera.
func DrawOrder(planes []*Plane, camera rl.Vector3) []*Plane {
	out := make([]*Plane, 0, len(planes))
	for _, p := range planes {
		if p.Visible() {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b *Plane) int {
		if a.DepthWrite() != b.DepthWrite() {
			if a.DepthWrite() {
				return -1
			}
			return 1
		}
		return cmp.Compare(distSq(b.Center(), camera), distSq(a.Center(), camera))
	})
	return out
}

func distSq(a, b rl.Vector3) float32 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return dx*dx + dy*dy + dz*dz
}

// Renderer draws planes as textured quads with alpha and distance fog. GPU resources are created
// on first Draw so the window and GL context exist by then.
type Renderer struct {
	mesh   rl.Mesh
	mtl    rl.Material
	loaded bool

	viewPos rl.Vector3
	fog     rl.Color

	locViewPos  int32
	locFogColor int32
	locFogNear  int32
	locFogFar   int32
}

// NewRenderer returns a renderer; call SetView every frame before Draw.
func NewRenderer() *Renderer {
	return &Renderer{fog: rl.Black}
}

// SetView sets the camera position and fog colour for this frame.
func (r *Renderer) SetView(viewPos rl.Vector3, fog rl.Color) {
	r.viewPos = viewPos
	r.fog = fog
}

func (r *Renderer) ensure() {
	if r.loaded {
		return
	}
	r.loaded = true
	// 1x1 quad in XZ; rotated to face +Z per draw.
	r.mesh = rl.GenMeshPlane(1, 1, 1, 1)
	r.mtl = rl.LoadMaterialDefault()
	if shader := rl.LoadShaderFromMemory(planeVS, planeFS); rl.IsShaderValid(shader) {
		r.mtl.Shader = shader
		r.locViewPos = rl.GetShaderLocation(shader, "viewPos")
		r.locFogColor = rl.GetShaderLocation(shader, "fogColor")
		r.locFogNear = rl.GetShaderLocation(shader, "fogNear")
		r.locFogFar = rl.GetShaderLocation(shader, "fogFar")
	}
}

func (r *Renderer) setUniforms() {
	shader := r.mtl.Shader
	if !rl.IsShaderValid(shader) {
		return
	}
	viewPos := []float32{r.viewPos.X, r.viewPos.Y, r.viewPos.Z}
	fog := rl.ColorNormalize(r.fog)
	fogColor := []float32{fog.X, fog.Y, fog.Z, 1}
	if r.locViewPos >= 0 {
		rl.SetShaderValueV(shader, r.locViewPos, viewPos, rl.ShaderUniformVec3, 1)
	}
	if r.locFogColor >= 0 {
		rl.SetShaderValueV(shader, r.locFogColor, fogColor, rl.ShaderUniformVec4, 1)
	}
	if r.locFogNear >= 0 {
		rl.SetShaderValue(shader, r.locFogNear, []float32{fogNear}, rl.ShaderUniformFloat)
	}
	if r.locFogFar >= 0 {
		rl.SetShaderValue(shader, r.locFogFar, []float32{fogFar}, rl.ShaderUniformFloat)
	}
}

// Draw draws planes in DrawOrder. Must be called between BeginMode3D and EndMode3D.
// It returns the number of planes drawn.
func (r *Renderer) Draw(planes []*Plane) int {
	ordered := DrawOrder(planes, r.viewPos)
	if len(ordered) == 0 {
		return 0
	}
	r.ensure()
	r.setUniforms()
	rl.BeginBlendMode(rl.BlendAlpha)
	defer rl.EndBlendMode()
	for _, p := range ordered {
		r.drawPlane(p)
	}
	rl.EnableDepthMask()
	return len(ordered)
}

func (r *Renderer) drawPlane(p *Plane) {
	if p.DepthWrite() {
		rl.EnableDepthMask()
	} else {
		rl.DisableDepthMask()
	}
	w, h := p.Size()
	tx, ty := p.Tilt()
	pos := p.Center()
	// Order: face +Z, scale to size, tilt, translate.
	transform := rl.MatrixMultiply(rl.MatrixRotateX(math32.Pi/2), rl.MatrixScale(w, h, 1))
	transform = rl.MatrixMultiply(transform, rl.MatrixRotateXYZ(rl.NewVector3(tx, ty, 0)))
	transform = rl.MatrixMultiply(transform, rl.MatrixTranslate(pos.X, pos.Y, pos.Z))

	a := uint8(clamp01(p.Alpha())*255 + 0.5)
	if albedo := r.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rl.NewColor(255, 255, 255, a)
	}
	rl.SetMaterialTexture(&r.mtl, rl.MapAlbedo, p.Handle.Texture())
	rl.DrawMesh(r.mesh, r.mtl, transform)
}

// Unload releases the mesh and shader. Textures belong to the media cache.
func (r *Renderer) Unload() {
	if !r.loaded {
		return
	}
	r.loaded = false
	rl.UnloadMesh(&r.mesh)
	if rl.IsShaderValid(r.mtl.Shader) {
		rl.UnloadShader(r.mtl.Shader)
	}
}

const (
	planeVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec2 fragTexCoord;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragTexCoord = vertexTexCoord;
  gl_Position = matProjection * matView * worldPos;
}
`
	planeFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
uniform sampler2D texture0;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec4 fogColor;
uniform float fogNear;
uniform float fogFar;
out vec4 finalColor;
void main() {
  vec4 texel = texture(texture0, fragTexCoord) * colDiffuse;
  float dist = length(viewPos - fragPosition);
  float fog = clamp((dist - fogNear) / (fogFar - fogNear), 0.0, 1.0);
  finalColor = vec4(mix(texel.rgb, fogColor.rgb, fog), texel.a);
}
`
)
