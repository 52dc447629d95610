package texture

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/forge-go/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// decodeResult carries one decoded image out of the worker pool.
type decodeResult struct {
	staging *common.TextureStagingData
	err     error
}

func (f *factory) LoadAll(images []*common.ImportedTexture, format wgpu.TextureFormat) ([]Texture, error) {
	if len(images) == 0 {
		return nil, nil
	}

	// Decode on a bounded worker pool; image decode is the CPU-heavy part
	// of texture loading and parallelizes cleanly. GPU creation stays
	// sequential on the single device queue below.
	pool := worker.NewDynamicWorkerPool(f.decodeWorkers, len(images), 1*time.Second)

	results := make([]decodeResult, len(images))
	var wg sync.WaitGroup
	for i, img := range images {
		wg.Add(1)
		idx, source := i, img
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				staging, err := source.Decode()
				results[idx] = decodeResult{staging: staging, err: err}
				return nil, err
			},
		})
	}
	wg.Wait()

	textures := make([]Texture, 0, len(images))
	for i, res := range results {
		if res.err != nil {
			for _, t := range textures {
				t.Release()
			}
			return nil, fmt.Errorf("decode %q: %w", images[i].Name, res.err)
		}

		t, err := f.CreateTexture(TextureSpec{
			Label:   images[i].Name,
			Width:   res.staging.Width,
			Height:  res.staging.Height,
			Format:  format,
			Source:  res.staging,
			Sampler: images[i].SamplerData,
		})
		if err != nil {
			for _, created := range textures {
				created.Release()
			}
			return nil, err
		}
		textures = append(textures, t)
	}

	return textures, nil
}
