package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ttsd/internal/common/fsutil"
	"ttsd/pkg/types"
)

// LoadModelDir validates an XTTS-style model directory and locates the assets
// a backend load needs: config.json, vocab.json and a checkpoint. refWav may
// be empty, in which case the first *.wav inside the model dir is used as the
// speaker reference.
func LoadModelDir(dir, refWav string) (types.ModelAssets, error) {
	var assets types.ModelAssets

	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return assets, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return assets, fmt.Errorf("abs path: %w", err)
	}
	if fi, err := os.Stat(abs); err != nil {
		return assets, fmt.Errorf("model dir: %w", err)
	} else if !fi.IsDir() {
		return assets, fmt.Errorf("model dir %s is not a directory", abs)
	}
	assets.Dir = abs

	cfgPath := filepath.Join(abs, "config.json")
	b, err := os.ReadFile(cfgPath)
	if err != nil {
		return assets, fmt.Errorf("config.json: %w", err)
	}
	if !json.Valid(b) {
		return assets, fmt.Errorf("config.json: not valid JSON: %s", cfgPath)
	}
	assets.ConfigPath = cfgPath

	vocabPath := filepath.Join(abs, "vocab.json")
	if _, err := os.Stat(vocabPath); err != nil {
		return assets, fmt.Errorf("vocab.json: %w", err)
	}
	assets.VocabPath = vocabPath

	ckpt, err := findCheckpoint(abs)
	if err != nil {
		return assets, err
	}
	assets.CheckpointPath = ckpt

	ref, err := resolveReferenceWav(abs, refWav)
	if err != nil {
		return assets, err
	}
	assets.ReferenceWav = ref

	return assets, nil
}

// findCheckpoint prefers model.pth, then any *.pth (sorted for determinism),
// then model.safetensors.
func findCheckpoint(dir string) (string, error) {
	if p := filepath.Join(dir, "model.pth"); fsutil.PathExists(p) {
		return p, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read dir: %w", err)
	}
	var pths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".pth") {
			pths = append(pths, e.Name())
		}
	}
	if len(pths) > 0 {
		sort.Strings(pths)
		return filepath.Join(dir, pths[0]), nil
	}
	if p := filepath.Join(dir, "model.safetensors"); fsutil.PathExists(p) {
		return p, nil
	}
	return "", fmt.Errorf("no checkpoint (*.pth or model.safetensors) in %s", dir)
}

func resolveReferenceWav(modelDir, refWav string) (string, error) {
	if refWav != "" {
		p, err := fsutil.ExpandHome(refWav)
		if err != nil {
			return "", err
		}
		if !fsutil.PathExists(p) {
			return "", fmt.Errorf("reference wav not found: %s", p)
		}
		return p, nil
	}
	entries, err := os.ReadDir(modelDir)
	if err != nil {
		return "", fmt.Errorf("read dir: %w", err)
	}
	var wavs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".wav") {
			wavs = append(wavs, e.Name())
		}
	}
	if len(wavs) == 0 {
		return "", fmt.Errorf("no reference wav in %s and none configured", modelDir)
	}
	sort.Strings(wavs)
	return filepath.Join(modelDir, wavs[0]), nil
}
