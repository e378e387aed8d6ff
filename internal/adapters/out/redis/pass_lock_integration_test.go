package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dispatch/internal/adapters/out/redis"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PassLockIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	rdb       *goredis.Client
}

func (suite *PassLockIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	host, err := container.Host(ctx)
	suite.Require().NoError(err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	suite.Require().NoError(err)

	suite.rdb = goredis.NewClient(&goredis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
}

func (suite *PassLockIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.rdb.FlushAll(context.Background()).Err())
}

func (suite *PassLockIntegrationTestSuite) TearDownSuite() {
	if suite.rdb != nil {
		_ = suite.rdb.Close()
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *PassLockIntegrationTestSuite) TestOnlyOneHolder() {
	ctx := context.Background()
	first := redis.NewPassLock(suite.rdb, "", time.Minute)
	second := redis.NewPassLock(suite.rdb, "", time.Minute)

	ok, err := first.TryAcquire(ctx)
	suite.Require().NoError(err)
	suite.True(ok)

	ok, err = second.TryAcquire(ctx)
	suite.Require().NoError(err)
	suite.False(ok)

	suite.Require().NoError(second.Release(ctx), "Releasing an unheld lock is a no-op")
	suite.Equal(int64(1), suite.rdb.Exists(ctx, redis.DefaultPassLockKey).Val())

	suite.Require().NoError(first.Release(ctx))

	ok, err = second.TryAcquire(ctx)
	suite.Require().NoError(err)
	suite.True(ok)
}

func (suite *PassLockIntegrationTestSuite) TestExpiredLeaseIsNotReleasedByOldHolder() {
	ctx := context.Background()
	old := redis.NewPassLock(suite.rdb, "lease", 100*time.Millisecond)
	next := redis.NewPassLock(suite.rdb, "lease", time.Minute)

	ok, err := old.TryAcquire(ctx)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	suite.Eventually(func() bool {
		return suite.rdb.Exists(ctx, "lease").Val() == 0
	}, 2*time.Second, 20*time.Millisecond)

	ok, err = next.TryAcquire(ctx)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	suite.Require().NoError(old.Release(ctx))
	suite.Equal(int64(1), suite.rdb.Exists(ctx, "lease").Val(), "New holder keeps the lease")
}

func TestPassLockIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	suite.Run(t, new(PassLockIntegrationTestSuite))
}
