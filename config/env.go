// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type wrapper struct {
	Config RawConfig `json:"axb"`
}

const EnvPrefix = "AXB"

func loadFromEnv() (RawConfig, error) {
	// load node config
	jsonNodeConfig, err := loadENVToJsonStructure()
	if err != nil {
		return RawConfig{}, err
	}
	c := &wrapper{}
	err = json.Unmarshal(jsonNodeConfig, c)
	if err != nil {
		return RawConfig{}, err
	}
	rawConfig := c.Config

	rawConfig.TokenConfigs, err = loadIndexedObjects("TOKEN")
	if err != nil {
		return RawConfig{}, err
	}
	rawConfig.Checkpoints, err = loadIndexedObjects("CHECKPOINT")
	if err != nil {
		return RawConfig{}, err
	}

	return rawConfig, nil
}

// loadIndexedObjects reads JSON objects from <prefix>_<name>_1, <prefix>_<name>_2...
// until the first missing index.
func loadIndexedObjects(name string) ([]map[string]interface{}, error) {
	var objects []map[string]interface{}
	index := 1
	for {
		raw := os.Getenv(fmt.Sprintf("%s_%s_%d", EnvPrefix, name, index))
		if raw == "" {
			break
		}
		var object map[string]interface{}
		err := json.Unmarshal([]byte(raw), &object)
		if err != nil {
			return nil, err
		}
		objects = append(objects, object)
		index++
	}
	return objects, nil
}

func loadENVToJsonStructure() ([]byte, error) {
	structure := map[string]interface{}{}
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, EnvPrefix+"_NODE_") {
			pair := strings.SplitN(e, "=", 2)
			indexes := strings.Split(pair[0], "_")
			mountMap(structure, indexes, pair[1])
		}
	}
	return json.MarshalIndent(structure, "", "    ")
}

func mountMap(m map[string]interface{}, i []string, v interface{}) {
	if len(i) > 1 {
		if _, ok := m[i[0]]; !ok {
			m[i[0]] = map[string]interface{}{}
		}
		asMap, ok := m[i[0]].(map[string]interface{})
		if !ok {
			return
		}
		mountMap(asMap, i[1:], v)
		v = asMap
	}
	m[i[0]] = v
}
