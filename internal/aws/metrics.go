package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsEmitter publishes custom metrics to a CloudWatch namespace.
type MetricsEmitter struct {
	client    CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

// NewMetricsEmitter returns an emitter writing into namespace.
func NewMetricsEmitter(client CloudWatchAPI, namespace string) *MetricsEmitter {
	return &MetricsEmitter{
		client:    client,
		namespace: namespace,
		nowFunc:   time.Now,
	}
}

// Metric is a single datapoint.
type Metric struct {
	Name  string
	Value float64
	Unit  cwtypes.StandardUnit
}

// Emit sends all metrics in one PutMetricData call, tagged with the given dimensions.
func (e *MetricsEmitter) Emit(ctx context.Context, dimensions map[string]string, metrics ...Metric) error {
	if len(metrics) == 0 {
		return nil
	}
	dims := make([]cwtypes.Dimension, 0, len(dimensions))
	for k, v := range dimensions {
		dims = append(dims, cwtypes.Dimension{Name: awsString(k), Value: awsString(v)})
	}

	now := e.nowFunc()
	data := make([]cwtypes.MetricDatum, 0, len(metrics))
	for _, m := range metrics {
		unit := m.Unit
		if unit == "" {
			unit = cwtypes.StandardUnitNone
		}
		data = append(data, cwtypes.MetricDatum{
			MetricName: awsString(m.Name),
			Value:      &m.Value,
			Unit:       unit,
			Timestamp:  &now,
			Dimensions: dims,
		})
	}

	_, err := e.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  &e.namespace,
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
