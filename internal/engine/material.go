package engine

// ChunkMaterial — непрозрачный дескриптор материала чанка для рендерера.
// Движок только передаёт его дальше.
type ChunkMaterial struct {
	Color       Color  `json:"color"`
	TexturePath string `json:"texture_path"`
	ShaderPath  string `json:"shader_path"`
}

// DefaultChunkMaterial возвращает материал чанков по умолчанию
func DefaultChunkMaterial() ChunkMaterial {
	return ChunkMaterial{
		Color:       ColorWhite,
		TexturePath: "textures/blocks/blocks.png",
		ShaderPath:  "shaders/chunk_shader.wgsl",
	}
}
