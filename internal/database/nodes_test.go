package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cloudshelf/internal/models"
)

func createTestUserForNodes(t *testing.T, username string) int64 {
	t.Helper()
	var userID int64
	query := `INSERT INTO users (username, password_hash, display_name) VALUES ($1, 'hash', 'Node Test User') RETURNING id`
	err := testStore.pool.QueryRow(context.Background(), query, username).Scan(&userID)
	require.NoError(t, err)
	require.NotZero(t, userID)
	return userID
}

func createTestNode(t *testing.T, params CreateNodeParams) *models.Node {
	t.Helper()
	node, err := testStore.CreateNode(context.Background(), params)
	require.NoError(t, err)
	require.NotNil(t, node)
	return node
}

func TestCreateNode(t *testing.T) {
	ownerID := createTestUserForNodes(t, "user_create_node")

	params := CreateNodeParams{
		ID:       "test_folder_id_123",
		OwnerID:  ownerID,
		Name:     "Test Folder",
		NodeType: models.NodeTypeFolder,
		Path:     "/",
	}

	createdNode, err := testStore.CreateNode(context.Background(), params)

	require.NoError(t, err)
	require.NotNil(t, createdNode)

	require.Equal(t, params.ID, createdNode.ID)
	require.Equal(t, params.OwnerID, createdNode.OwnerID)
	require.Equal(t, params.Name, createdNode.Name)
	require.Equal(t, params.NodeType, createdNode.NodeType)
	require.Equal(t, "/", createdNode.Path)
	require.Equal(t, "/Test Folder", createdNode.Location())
	require.Nil(t, createdNode.SizeBytes)
	require.NotZero(t, createdNode.CreatedAt)
	require.NotZero(t, createdNode.ModifiedAt)
}

func TestCreateNodeDuplicateName(t *testing.T) {
	ownerID := createTestUserForNodes(t, "user_dup_node")

	createTestNode(t, CreateNodeParams{ID: "dup_a", OwnerID: ownerID, Name: "Docs", NodeType: models.NodeTypeFolder, Path: "/"})

	_, err := testStore.CreateNode(context.Background(), CreateNodeParams{
		ID: "dup_b", OwnerID: ownerID, Name: "Docs", NodeType: models.NodeTypeFolder, Path: "/",
	})
	require.ErrorIs(t, err, ErrDuplicateNodeName)

	// Same name in a different folder is fine.
	createTestNode(t, CreateNodeParams{ID: "dup_c", OwnerID: ownerID, Name: "Docs", NodeType: models.NodeTypeFolder, Path: "/Docs"})
}

func TestGetNodeByIDOwnerScoped(t *testing.T) {
	ownerID := createTestUserForNodes(t, "user_get_node")
	otherID := createTestUserForNodes(t, "user_get_node_other")

	createTestNode(t, CreateNodeParams{ID: "get_node_1", OwnerID: ownerID, Name: "a.txt", NodeType: models.NodeTypeFile, Path: "/"})

	node, err := testStore.GetNodeByID(context.Background(), "get_node_1", ownerID)
	require.NoError(t, err)
	require.NotNil(t, node)

	node, err = testStore.GetNodeByID(context.Background(), "get_node_1", otherID)
	require.NoError(t, err)
	require.Nil(t, node, "lookup under another owner should find nothing")

	node, err = testStore.GetNodeByID(context.Background(), "no_such_node", ownerID)
	require.NoError(t, err)
	require.Nil(t, node)
}

func TestListNodesByPathMatchesExactly(t *testing.T) {
	ownerID := createTestUserForNodes(t, "user_list_path")

	createTestNode(t, CreateNodeParams{ID: "lp_1", OwnerID: ownerID, Name: "Docs", NodeType: models.NodeTypeFolder, Path: "/"})
	createTestNode(t, CreateNodeParams{ID: "lp_2", OwnerID: ownerID, Name: "a.txt", NodeType: models.NodeTypeFile, Path: "/Docs"})
	createTestNode(t, CreateNodeParams{ID: "lp_3", OwnerID: ownerID, Name: "b.txt", NodeType: models.NodeTypeFile, Path: "/Docs/Deep"})

	nodes, err := testStore.ListNodesByPath(context.Background(), ownerID, "/Docs")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Equal(t, "lp_2", nodes[0].ID)

	nodes, err = testStore.ListNodesByPath(context.Background(), ownerID, "/Empty")
	require.NoError(t, err)
	require.Empty(t, nodes)
}

func TestListSubtreeIsSegmentAware(t *testing.T) {
	ownerID := createTestUserForNodes(t, "user_list_subtree")

	createTestNode(t, CreateNodeParams{ID: "st_1", OwnerID: ownerID, Name: "a.txt", NodeType: models.NodeTypeFile, Path: "/Docs"})
	createTestNode(t, CreateNodeParams{ID: "st_2", OwnerID: ownerID, Name: "b.txt", NodeType: models.NodeTypeFile, Path: "/Docs/Deep"})
	createTestNode(t, CreateNodeParams{ID: "st_3", OwnerID: ownerID, Name: "c.txt", NodeType: models.NodeTypeFile, Path: "/DocsBackup"})

	nodes, err := testStore.ListSubtree(context.Background(), ownerID, "/Docs")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	for _, n := range nodes {
		require.NotEqual(t, "st_3", n.ID, "raw prefix sibling must not match")
	}
}

func TestRenameNode(t *testing.T) {
	ownerID := createTestUserForNodes(t, "user_rename_node")

	node := createTestNode(t, CreateNodeParams{ID: "rn_1", OwnerID: ownerID, Name: "old.txt", NodeType: models.NodeTypeFile, Path: "/"})

	ok, err := testStore.RenameNode(context.Background(), node.ID, ownerID, "new.txt")
	require.NoError(t, err)
	require.True(t, ok)

	renamed, err := testStore.GetNodeByID(context.Background(), node.ID, ownerID)
	require.NoError(t, err)
	require.Equal(t, "new.txt", renamed.Name)
	require.True(t, renamed.ModifiedAt.After(node.ModifiedAt) || renamed.ModifiedAt.Equal(node.ModifiedAt))

	ok, err = testStore.RenameNode(context.Background(), "no_such_node", ownerID, "x")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRenameNodeDuplicateRejectedByConstraint(t *testing.T) {
	ownerID := createTestUserForNodes(t, "user_rename_dup")

	createTestNode(t, CreateNodeParams{ID: "rd_1", OwnerID: ownerID, Name: "a.txt", NodeType: models.NodeTypeFile, Path: "/"})
	node := createTestNode(t, CreateNodeParams{ID: "rd_2", OwnerID: ownerID, Name: "b.txt", NodeType: models.NodeTypeFile, Path: "/"})

	_, err := testStore.RenameNode(context.Background(), node.ID, ownerID, "a.txt")
	require.ErrorIs(t, err, ErrDuplicateNodeName)
}

func TestSetNodePath(t *testing.T) {
	ownerID := createTestUserForNodes(t, "user_set_path")

	node := createTestNode(t, CreateNodeParams{ID: "sp_1", OwnerID: ownerID, Name: "a.txt", NodeType: models.NodeTypeFile, Path: "/"})

	ok, err := testStore.SetNodePath(context.Background(), node.ID, ownerID, "/Docs")
	require.NoError(t, err)
	require.True(t, ok)

	moved, err := testStore.GetNodeByID(context.Background(), node.ID, ownerID)
	require.NoError(t, err)
	require.Equal(t, "/Docs", moved.Path)
}

func TestDeleteNode(t *testing.T) {
	ownerID := createTestUserForNodes(t, "user_delete_node")

	node := createTestNode(t, CreateNodeParams{ID: "dn_1", OwnerID: ownerID, Name: "a.txt", NodeType: models.NodeTypeFile, Path: "/"})

	ok, err := testStore.DeleteNode(context.Background(), node.ID, ownerID)
	require.NoError(t, err)
	require.True(t, ok)

	gone, err := testStore.GetNodeByID(context.Background(), node.ID, ownerID)
	require.NoError(t, err)
	require.Nil(t, gone)

	ok, err = testStore.DeleteNode(context.Background(), node.ID, ownerID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGenerateNodeID(t *testing.T) {
	id, err := GenerateNodeID(context.Background(), testStore)
	require.NoError(t, err)
	require.Len(t, id, 21)
}

func TestEventJournal(t *testing.T) {
	ownerID := createTestUserForNodes(t, "user_event_journal")

	err := testStore.LogEvent(context.Background(), ownerID, "node_created", map[string]string{"id": "ev_1"})
	require.NoError(t, err)
	err = testStore.LogEvent(context.Background(), ownerID, "node_deleted", map[string]string{"id": "ev_1"})
	require.NoError(t, err)

	events, err := testStore.GetEventsSince(context.Background(), ownerID, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "node_created", events[0].EventType)
	require.Equal(t, "node_deleted", events[1].EventType)

	later, err := testStore.GetEventsSince(context.Background(), ownerID, events[0].ID)
	require.NoError(t, err)
	require.Len(t, later, 1)
	require.Equal(t, events[1].ID, later[0].ID)
}
