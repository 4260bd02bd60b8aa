package vehicle

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultNHTSABaseURL is the production vPIC API root.
const DefaultNHTSABaseURL = "https://vpic.nhtsa.dot.gov/api/vehicles"

const defaultWeightKg = 1450.0

// displacementTorqueNm estimates NA peak torque (Nm) from engine
// displacement (litres). vPIC does not expose HP or torque directly, so
// torque is interpolated from typical production-engine figures.
var displacementTorqueNm = map[float64]float64{
	0.8: 90, 1.0: 115, 1.2: 130, 1.5: 150, 1.6: 160, 1.8: 175,
	2.0: 195, 2.4: 225, 2.5: 240, 3.0: 285, 3.5: 335, 4.0: 385,
	4.6: 430, 5.0: 475, 5.7: 530, 6.0: 570, 6.2: 590, 8.0: 720,
}

// redlineTable estimates redline RPM by aspiration and displacement,
// first match wins.
var redlineTable = []struct {
	aspiration      string
	maxDisplacement float64
	redlineRPM      int
}{
	{"Turbo", 99.0, 6500},
	{"Supercharged", 99.0, 6200},
	{"NA", 1.4, 7500},
	{"NA", 2.0, 7200},
	{"NA", 3.0, 6800},
	{"NA", 4.5, 6200},
	{"NA", 99.0, 5800},
}

// NHTSAClient fetches vehicle data from the NHTSA vPIC API.
type NHTSAClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewNHTSAClient returns a client for the given API root. An empty baseURL
// selects the production endpoint; a nil logger disables request logging.
func NewNHTSAClient(baseURL string, timeout time.Duration, logger *zap.Logger) *NHTSAClient {
	if baseURL == "" {
		baseURL = DefaultNHTSABaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NHTSAClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type vpicEnvelope struct {
	Results []map[string]string `json:"Results"`
}

func (c *NHTSAClient) fetch(ctx context.Context, path string) ([]map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ecud/1.0")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nhtsa fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("vPIC request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nhtsa fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	var envelope vpicEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("nhtsa fetch %s: decode: %w", path, err)
	}
	return envelope.Results, nil
}

// DecodeVIN returns the raw vPIC decode result for a VIN.
func (c *NHTSAClient) DecodeVIN(ctx context.Context, vin string) (map[string]string, error) {
	path := fmt.Sprintf("/DecodeVinValues/%s?format=json", url.PathEscape(strings.TrimSpace(vin)))
	results, err := c.fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("nhtsa returned no results for VIN %q", vin)
	}
	return results[0], nil
}

// CarFromVIN builds a validated Car from vPIC VIN decode data, estimating
// torque and redline from displacement and aspiration.
func (c *NHTSAClient) CarFromVIN(ctx context.Context, vin string) (Car, error) {
	result, err := c.DecodeVIN(ctx, vin)
	if err != nil {
		return Car{}, err
	}

	make_ := strings.TrimSpace(result["Make"])
	if make_ == "" {
		make_ = "Unknown"
	}
	model := strings.TrimSpace(result["Model"])
	if model == "" {
		model = "Unknown"
	}
	year := 2000
	if y, err := strconv.Atoi(result["ModelYear"]); err == nil {
		year = y
	}

	displacement := parseDisplacement(result["DisplacementL"])
	aspiration := parseAspiration(result["Turbo"], result["SuperchargerType"])
	drivetrain := parseDrivetrain(result["DriveType"])

	id := strings.NewReplacer(" ", "-", "/", "-").Replace(
		fmt.Sprintf("%s-%s-%d", strings.ToLower(make_), strings.ToLower(model), year))

	car := Car{
		VehicleID:    id,
		Make:         make_,
		Model:        model,
		Year:         year,
		BaseTorqueNm: estimateTorqueNm(displacement),
		WeightKg:     defaultWeightKg,
		RedlineRPM:   estimateRedline(aspiration, displacement),
		Aspiration:   aspiration,
		Drivetrain:   drivetrain,
	}
	if errs := car.Validate(); len(errs) > 0 {
		return Car{}, fmt.Errorf("car built from NHTSA data failed validation: %s", strings.Join(errs, "; "))
	}
	return car, nil
}

// Makes returns all vehicle makes known to vPIC.
func (c *NHTSAClient) Makes(ctx context.Context) ([]map[string]string, error) {
	return c.fetch(ctx, "/getallmakes?format=json")
}

// ModelsForMake returns all models for a manufacturer name.
func (c *NHTSAClient) ModelsForMake(ctx context.Context, make_ string) ([]map[string]string, error) {
	path := fmt.Sprintf("/getmodelsformake/%s?format=json", url.PathEscape(strings.TrimSpace(make_)))
	return c.fetch(ctx, path)
}

// estimateTorqueNm linearly interpolates base torque from displacement.
func estimateTorqueNm(displacementL float64) float64 {
	if displacementL <= 0 || math.IsNaN(displacementL) || math.IsInf(displacementL, 0) {
		return displacementTorqueNm[2.0]
	}

	keys := make([]float64, 0, len(displacementTorqueNm))
	for k := range displacementTorqueNm {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	if displacementL <= keys[0] {
		return displacementTorqueNm[keys[0]]
	}
	if displacementL >= keys[len(keys)-1] {
		return displacementTorqueNm[keys[len(keys)-1]]
	}
	for i := 1; i < len(keys); i++ {
		lo, hi := keys[i-1], keys[i]
		if displacementL <= hi {
			t := (displacementL - lo) / (hi - lo)
			tqLo, tqHi := displacementTorqueNm[lo], displacementTorqueNm[hi]
			return math.Round((tqLo+t*(tqHi-tqLo))*100) / 100
		}
	}
	return displacementTorqueNm[keys[len(keys)-1]]
}

func estimateRedline(aspiration string, displacementL float64) int {
	for _, row := range redlineTable {
		if aspiration == row.aspiration && displacementL <= row.maxDisplacement {
			return row.redlineRPM
		}
	}
	return 6000
}

func parseAspiration(turbo, supercharger string) string {
	s := strings.ToUpper(strings.TrimSpace(supercharger))
	if s != "" && s != "NOT APPLICABLE" && s != "NONE" {
		return "Supercharged"
	}
	t := strings.ToUpper(strings.TrimSpace(turbo))
	if t != "" && t != "NOT APPLICABLE" && t != "NONE" {
		return "Turbo"
	}
	return "NA"
}

func parseDrivetrain(driveType string) string {
	d := strings.ToUpper(driveType)
	switch {
	case strings.Contains(d, "AWD"), strings.Contains(d, "4WD"), strings.Contains(d, "4X4"):
		return "AWD"
	case strings.Contains(d, "FWD"), strings.Contains(d, "FRONT"):
		return "FWD"
	default:
		return "RWD"
	}
}

func parseDisplacement(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 2.0
	}
	return v
}
