package quest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termquest/interpreter"
)

func testConfig() Config {
	return Config{
		Start:    "village",
		Unlocked: []string{"help", "clear", "ls", "cd"},
		Locations: []Location{
			{
				ID:          "village",
				Name:        "The Village",
				Description: "Smoke rises from the chimneys.",
				Files:       []string{"panneau.txt", "coffre_cd.sh", "coffre_cat.sh"},
				Directories: []string{"maison", "puits"},
				Rooms:       map[string][]string{"maison": {"lettre.txt"}},
				Chest:       &Chest{Command: "cd", Grants: []string{"pwd", "cat"}},
			},
			{
				ID:          "foret",
				Name:        "The Forest",
				Description: "Tall trees everywhere.",
				Files:       []string{"arbre.txt"},
				Directories: []string{"clairiere"},
				Chest:       &Chest{Command: "cat", Grants: []string{"echo", "history"}},
			},
			{
				ID:          "chateau",
				Name:        "The Castle",
				Files:       []string{"trone.txt"},
				Directories: []string{"foret"},
				Chest:       &Chest{Command: "echo", Final: true},
			},
		},
		Contents: map[string]string{
			"panneau.txt":  "Welcome to the village.\n",
			"lettre.txt":   "Dear traveller,\nlook in the forest.\n",
			"arbre.txt":    "An old oak.",
			"coffre_cd.sh": "#!/bin/sh\necho opening\n",
		},
		Timestamp: "Jan 15 10:30",
	}
}

func newTestQuest(t *testing.T) *Interpreter {
	t.Helper()
	q, err := New(testConfig())
	require.NoError(t, err)
	return q
}

func TestNew_InvalidWorld(t *testing.T) {
	cfg := testConfig()
	cfg.Start = "moon"
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Locations = append(cfg.Locations, Location{ID: "village"})
	_, err = New(cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Locations[0].Rooms["grenier"] = []string{"x"}
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestGate(t *testing.T) {
	q := newTestQuest(t)

	res := q.Execute("pwd")
	assert.False(t, res.Valid)
	assert.Equal(t, "Command 'pwd' not available. Find the gate that grants it.", res.Error)
	assert.Equal(t, interpreter.CodeGated, res.Code)
	assert.Empty(t, res.Suggestion)

	tests := []struct {
		input string
		verb  string
	}{
		{input: "pwdd", verb: "pwdd"},
		{input: "cta arbre.txt", verb: "cta"},
		{input: "mkdir x", verb: "mkdir"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := q.Execute(tt.input)
			assert.Equal(t, interpreter.CodeGated, res.Code)
			assert.Equal(t, "Command '"+tt.verb+"' not available. Find the gate that grants it.", res.Error)
			assert.Empty(t, res.Suggestion)
		})
	}
}

func TestChestUnlocksOnce(t *testing.T) {
	q := newTestQuest(t)

	res := q.Execute("cd maison")
	require.True(t, res.Valid, res.Error)
	assert.Equal(t, "pwd,cat", res.TreasureUnlocked)
	assert.Equal(t, "maison", q.SubLocation())
	assert.True(t, q.Allowed("pwd"))
	assert.True(t, q.Allowed("cat"))

	res = q.Execute("cd ..")
	require.True(t, res.Valid, res.Error)
	assert.Empty(t, res.TreasureUnlocked)
	assert.Equal(t, "", q.SubLocation())

	res = q.Execute("cd maison")
	require.True(t, res.Valid)
	assert.Empty(t, res.TreasureUnlocked)
}

func TestFailedCommandDoesNotOpenChest(t *testing.T) {
	q := newTestQuest(t)

	res := q.Execute("cd nowhere")
	assert.False(t, res.Valid)
	assert.Empty(t, res.TreasureUnlocked)
	assert.False(t, q.Allowed("pwd"))
}

func TestFinalChest(t *testing.T) {
	q := newTestQuest(t)

	q.Execute("cd maison")
	res := q.Execute("cd foret")
	require.True(t, res.Valid, res.Error)
	assert.Equal(t, "foret", res.LocationChanged)
	assert.Equal(t, []string{"Tall trees everywhere."}, res.Output)

	res = q.Execute("cat arbre.txt")
	require.True(t, res.Valid, res.Error)
	assert.Equal(t, "echo,history", res.TreasureUnlocked)
	assert.Equal(t, "An old oak.", res.Output[0])

	res = q.Execute("cd chateau")
	require.True(t, res.Valid, res.Error)
	assert.Equal(t, "chateau", res.LocationChanged)
	assert.False(t, q.Completed())

	res = q.Execute("echo victory")
	require.True(t, res.Valid)
	assert.Equal(t, interpreter.MasterUnlock, res.TreasureUnlocked)
	assert.Equal(t, "victory", res.Output[0])
	assert.True(t, q.Completed())
	assert.True(t, q.Allowed("whoami"))

	res = q.Execute("echo again")
	assert.Empty(t, res.TreasureUnlocked)
	assert.Equal(t, []string{"again"}, res.Output)
}

func TestScripts(t *testing.T) {
	q := newTestQuest(t)

	res := q.Execute("./coffre_cd.sh")
	require.True(t, res.Valid)
	assert.Equal(t, "pwd,cat", res.TreasureUnlocked)
	assert.Equal(t, "#!/bin/sh", res.Output[0])

	res = q.Execute("./coffre_cd.sh")
	assert.True(t, res.Valid)
	assert.Empty(t, res.TreasureUnlocked)
	assert.Contains(t, res.Output, "The chest of The Village is already open.")

	// the chest keyed to cat lives in the forest
	res = q.Execute("./coffre_cat.sh")
	require.True(t, res.Valid)
	assert.Equal(t, "echo,history", res.TreasureUnlocked)
	assert.Equal(t, "village", q.Location())

	res = q.Execute("./setup.sh")
	assert.False(t, res.Valid)
	assert.Equal(t, "bash: ./setup.sh: No such file or directory", res.Error)

	res = q.Execute("./coffre_rm.sh")
	assert.False(t, res.Valid)
}

func TestScriptBypassesGate(t *testing.T) {
	q := newTestQuest(t)
	require.False(t, q.Allowed("echo"))

	res := q.Execute("./coffre_echo.sh")
	require.True(t, res.Valid)
	assert.Equal(t, interpreter.MasterUnlock, res.TreasureUnlocked)
	assert.True(t, q.Completed())
}

func TestRegrantEmitsFullList(t *testing.T) {
	cfg := testConfig()
	cfg.Unlocked = append(cfg.Unlocked, "pwd", "cat")
	q, err := New(cfg)
	require.NoError(t, err)

	res := q.Execute("cd puits")
	assert.Equal(t, "pwd,cat", res.TreasureUnlocked)
}

func TestCd(t *testing.T) {
	tests := []struct {
		name     string
		setup    []string
		input    string
		wantPath string
		wantErr  string
		changed  string
	}{
		{name: "parent at location top", input: "cd ..", wantPath: "/village", wantErr: "cd: ..: No such file or directory"},
		{name: "unknown", input: "cd lune", wantPath: "/village", wantErr: "cd: lune: No such file or directory"},
		{name: "file", input: "cd panneau.txt", wantPath: "/village", wantErr: "cd: panneau.txt: Not a directory"},
		{name: "travel", input: "cd foret", wantPath: "/foret", changed: "foret"},
		{name: "travel from sub-location", setup: []string{"cd maison"}, input: "cd chateau", wantPath: "/chateau", changed: "chateau"},
		{name: "absolute", input: "cd /foret/clairiere", wantPath: "/foret/clairiere", changed: "foret"},
		{name: "home", setup: []string{"cd foret"}, input: "cd", wantPath: "/village", changed: "village"},
		{name: "sub-location shadows location", setup: []string{"cd chateau"}, input: "cd foret", wantPath: "/chateau/foret"},
		{name: "sub-location to location", setup: []string{"cd chateau", "cd foret"}, input: "cd village", wantPath: "/village", changed: "village"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newTestQuest(t)
			for _, s := range tt.setup {
				require.True(t, q.Execute(s).Valid, s)
			}
			res := q.Execute(tt.input)
			assert.Equal(t, tt.wantPath, q.Session().CurrentPath)
			if tt.wantErr != "" {
				assert.False(t, res.Valid)
				assert.Equal(t, tt.wantErr, res.Error)
				return
			}
			assert.True(t, res.Valid, res.Error)
			assert.Equal(t, tt.changed, res.LocationChanged)
		})
	}
}

func TestCdDash(t *testing.T) {
	q := newTestQuest(t)

	res := q.Execute("cd -")
	assert.Equal(t, interpreter.CodeUsage, res.Code)
	assert.Equal(t, "cd: OLDPWD not set", res.Error)

	require.True(t, q.Execute("cd maison").Valid)
	require.True(t, q.Execute("cd ..").Valid)

	res = q.Execute("cd -")
	require.True(t, res.Valid, res.Error)
	assert.Equal(t, []string{"/village/maison"}, res.Output)
	assert.Empty(t, res.LocationChanged)

	require.True(t, q.Execute("cd foret").Valid)
	res = q.Execute("cd -")
	require.True(t, res.Valid, res.Error)
	assert.Equal(t, "village", res.LocationChanged)
	require.NotEmpty(t, res.Output)
	assert.Equal(t, "/village/maison", res.Output[0])
	assert.Equal(t, "/village/maison", q.Session().CurrentPath)
}

func TestSetSubLocation(t *testing.T) {
	q := newTestQuest(t)

	require.NoError(t, q.SetSubLocation("puits"))
	assert.Equal(t, "puits", q.SubLocation())
	assert.Equal(t, "/village/puits", q.Session().CurrentPath)

	assert.Error(t, q.SetSubLocation("clairiere"))
	assert.Equal(t, "puits", q.SubLocation())

	require.NoError(t, q.SetSubLocation(""))
	assert.Equal(t, "/village", q.Session().CurrentPath)
}

func TestLsAndCat(t *testing.T) {
	q := newTestQuest(t)

	res := q.Execute("ls")
	assert.Equal(t, []string{"maison/  puits/  panneau.txt  coffre_cd.sh*  coffre_cat.sh*"}, res.Output)

	q.Execute("cd maison")
	res = q.Execute("ls")
	assert.Equal(t, []string{"lettre.txt"}, res.Output)

	res = q.Execute("cat lettre.txt")
	assert.Equal(t, []string{"Dear traveller,", "look in the forest."}, res.Output)

	res = q.Execute("cat ../panneau.txt")
	assert.Equal(t, []string{"Welcome to the village."}, res.Output)

	res = q.Execute("cat ..")
	assert.Equal(t, "cat: ..: Is a directory", res.Error)
	assert.Empty(t, res.Output)
}

func TestInstancesDoNotShareState(t *testing.T) {
	cfg := testConfig()
	a, err := New(cfg)
	require.NoError(t, err)
	b, err := New(cfg)
	require.NoError(t, err)

	a.Execute("cd maison")
	assert.True(t, a.Allowed("pwd"))
	assert.False(t, b.Allowed("pwd"))
	assert.False(t, cfg.Locations[0].Chest.Unlocked)

	res := b.Execute("cd maison")
	assert.Equal(t, "pwd,cat", res.TreasureUnlocked)
}

func TestHelpShowsProgress(t *testing.T) {
	q := newTestQuest(t)

	res := q.Execute("help")
	require.True(t, res.Valid)
	assert.Equal(t, "Location: The Village", res.Output[0])
	assert.Equal(t, "Unlocked: 4/9 commands", res.Output[1])
	assert.NotContains(t, res.Output, "  pwd")
	assert.Contains(t, res.Output, "  ls")
}

func TestComplete(t *testing.T) {
	q := newTestQuest(t)

	assert.Equal(t, []string{"foret"}, q.Complete("cd f").Candidates)
	assert.Equal(t, []string{"chateau", "foret", "maison", "puits", "village"}, q.Complete("cd ").Candidates)
	assert.Equal(t, []string{"./coffre_cat.sh", "./coffre_cd.sh"}, q.Complete("./c").Candidates)
	assert.Equal(t, []string{"cd", "clear"}, q.Complete("c").Candidates)
}

func TestUnlocked(t *testing.T) {
	q := newTestQuest(t)
	assert.Equal(t, []string{"cd", "clear", "help", "ls"}, q.Unlocked())
}
