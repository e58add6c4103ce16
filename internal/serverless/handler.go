// Package serverless answers optimize requests sent to a Lambda function URL.
package serverless

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/tidwall/gjson"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/catalog"
	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/scoring"
	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/search"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type item struct {
	Slot        string             `json:"slotKey"`
	SetKey      string             `json:"setKey"`
	Rarity      int                `json:"rarity"`
	Level       int                `json:"level"`
	MainStatKey string             `json:"mainStatKey"`
	Substats    map[string]float64 `json:"substats"`
	Score       float64            `json:"score"`
}

type optimizeResult struct {
	Strategy  string  `json:"strategy"`
	Score     float64 `json:"score"`
	Evaluated int     `json:"evaluated"`
	Skipped   int     `json:"skipped"`
	TimeMs    int64   `json:"timeMs"`
	Items     []item  `json:"items"`
}

// Handle runs one search over the GOOD document in the request body:
//
//	{"strategy": "iterative", "weights": {"atk": 1}, "good": {...}}
//
// strategy and weights are optional.
func Handle(_ context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}
	if !gjson.Valid(body) {
		return errResp(400, "invalid JSON")
	}

	req := gjson.Parse(body)
	good := req.Get("good")
	if !good.Exists() {
		return errResp(400, "missing good field")
	}

	strategy := search.StrategyIterative
	if s := req.Get("strategy"); s.Exists() {
		parsed, err := search.ParseStrategy(s.String())
		if err != nil {
			return errResp(400, err.Error())
		}
		strategy = parsed
	}

	weights := scoring.DefaultWeights()
	if w := req.Get("weights"); w.Exists() {
		parsed, err := parseWeights(w)
		if err != nil {
			return errResp(400, err.Error())
		}
		weights = parsed
	}

	pools, rep, err := catalog.ParseGOOD([]byte(good.Raw))
	if err != nil {
		return errResp(400, err.Error())
	}

	start := time.Now()
	res, err := search.Run(strategy, &pools, weights)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, search.ErrNoCombination) {
			return errResp(422, err.Error())
		}
		return errResp(500, err.Error())
	}

	resp := optimizeResult{
		Strategy:  string(strategy),
		Score:     res.Score,
		Evaluated: res.Evaluated,
		Skipped:   len(rep.Skipped),
		TimeMs:    elapsed.Milliseconds(),
		Items:     make([]item, 0, len(res.Best)),
	}
	for _, it := range res.Best {
		subs := make(map[string]float64, len(it.Substats))
		for _, s := range it.Substats {
			subs[s.Key] += s.Value
		}
		resp.Items = append(resp.Items, item{
			Slot:        it.Slot.String(),
			SetKey:      it.SetKey,
			Rarity:      it.Rarity,
			Level:       it.Level,
			MainStatKey: it.MainStatKey,
			Substats:    subs,
			Score:       weights.ItemScore(it),
		})
	}
	respJSON, _ := json.Marshal(resp)
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func parseWeights(w gjson.Result) (scoring.Weights, error) {
	if !w.IsObject() {
		return nil, errors.New("weights must be an object")
	}
	out := make(scoring.Weights)
	var err error
	w.ForEach(func(k, v gjson.Result) bool {
		if v.Type != gjson.Number || math.IsInf(v.Float(), 0) {
			err = fmt.Errorf("weight %q is not a number", k.String())
			return false
		}
		out[k.String()] = v.Float()
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, out.Validate()
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}
